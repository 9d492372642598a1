package service

import (
	"sync"

	"github.com/google/uuid"
)

// BattleLockRegistry sérialise les mutations d'une même bataille.
// Chaque bataille possède son propre verrou : deux résolutions sur la
// même bataille ne s'entrelacent jamais, deux batailles distinctes
// progressent en parallèle.
type BattleLockRegistry struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewBattleLockRegistry crée un nouveau registre de verrous
func NewBattleLockRegistry() *BattleLockRegistry {
	return &BattleLockRegistry{
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// Lock verrouille la bataille et retourne la fonction de déverrouillage
func (r *BattleLockRegistry) Lock(battleID uuid.UUID) func() {
	r.mu.Lock()
	lock, ok := r.locks[battleID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[battleID] = lock
	}
	r.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Release retire le verrou d'une bataille terminée du registre
func (r *BattleLockRegistry) Release(battleID uuid.UUID) {
	r.mu.Lock()
	delete(r.locks, battleID)
	r.mu.Unlock()
}
