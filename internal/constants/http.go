package constants

// Constantes HTTP
const (
	// Codes de statut HTTP
	StatusOK                  = 200
	StatusBadRequest          = 400
	StatusUnauthorized        = 401
	StatusForbidden           = 403
	StatusNotFound            = 404
	StatusConflict            = 409
	StatusTooManyRequests     = 429
	StatusInternalServerError = 500

	// Autres constantes
	AuthHeaderSplitParts = 2
	DefaultLogLimit      = 100
)
