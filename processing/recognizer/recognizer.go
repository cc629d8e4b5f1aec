package recognizer

import (
	"image"

	"calculator/internal/models"
	"calculator/processing/engine"
)

// Argmax returns the index of the largest score, the earliest on ties.
func Argmax(scores []float32) int {
	index := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[index] {
			index = i
		}
	}
	return index
}

type Recognizer struct {
	model engine.Model
}

func New(m engine.Model) *Recognizer {
	return &Recognizer{model: m}
}

func (r *Recognizer) Recognize(img image.Image) models.InferenceResult {
	t, err := ToTensor(img)
	if err != nil {
		return models.InferenceResult{Err: err}
	}
	return r.RecognizeTensor(t)
}

func (r *Recognizer) RecognizeTensor(t models.Tensor) models.InferenceResult {
	if r == nil || r.model == nil {
		return models.InferenceResult{Err: models.ErrModelNotLoaded}
	}

	scores, err := r.model.Predict(t)
	if err != nil {
		return models.InferenceResult{Err: err}
	}
	if err := scores.Validate(); err != nil {
		return models.InferenceResult{Err: err}
	}

	return models.InferenceResult{
		DigitResult: models.DigitResult{Digit: Argmax(scores), Scores: scores},
	}
}

func (r *Recognizer) Info() models.ModelInfo {
	return r.model.Info()
}
