package engine

import (
	"calculator/internal/models"
)

// Model scores one sample tensor. Implementations must be deterministic
// for a fixed set of weights.
type Model interface {
	Predict(t models.Tensor) (models.Scores, error)
	Info() models.ModelInfo
	Close() error
}
