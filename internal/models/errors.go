package models

import "errors"

// Erreurs sentinelles du moteur de résolution.
// Elles séparent les erreurs client (NotFound, InvalidRequest) des cas
// bénins (AlreadyResolved est traité comme un no-op par le pipeline).
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrAlreadyResolved = errors.New("attack already resolved")
	ErrRerollForbidden = errors.New("initiative reroll not allowed")
)
