package external

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"battle/internal/config"
)

// PlayerClientInterface définit les méthodes pour communiquer avec le
// service Player. La bataille reste la source de vérité : le service
// Player est un miroir, poussé en meilleur effort.
type PlayerClientInterface interface {
	PushCharacterState(playerID uuid.UUID, state *CharacterState) error
}

// CharacterState représente l'état de vie poussé vers le service Player
type CharacterState struct {
	PlayerID  uuid.UUID `json:"player_id"`
	Health    int       `json:"health"`
	MaxHealth int       `json:"max_health"`
	Alive     bool      `json:"alive"`
}

// PlayerClient implémente l'interface PlayerClientInterface
type PlayerClient struct {
	baseURL    string
	httpClient *http.Client
	retries    int
}

// NewPlayerClient crée une nouvelle instance du client Player
func NewPlayerClient(cfg *config.Config) PlayerClientInterface {
	return &PlayerClient{
		baseURL: cfg.Services.PlayerService.URL,
		httpClient: &http.Client{
			Timeout: cfg.Services.PlayerService.Timeout,
		},
		retries: cfg.Services.PlayerService.Retries,
	}
}

// PushCharacterState pousse l'état de vie d'un joueur vers le service Player
func (c *PlayerClient) PushCharacterState(playerID uuid.UUID, state *CharacterState) error {
	body, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal character state: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/players/%s/battle-state", c.baseURL, playerID)

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to build player request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			logrus.WithFields(logrus.Fields{
				"player_id": playerID,
				"health":    state.Health,
			}).Debug("Character state pushed to player service")
			return nil
		}
		lastErr = fmt.Errorf("player service returned status %d", resp.StatusCode)
	}

	return fmt.Errorf("failed to push character state after %d attempts: %w", c.retries+1, lastErr)
}
