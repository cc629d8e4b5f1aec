package models

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

const (
	ImgSize    = 28
	TensorSize = ImgSize * ImgSize
	NumClasses = 10
)

var (
	ErrModelNotLoaded = errors.New("Model not loaded")
	ErrTensorSize     = errors.New("tensor must hold 784 values")
	ErrScoresSize     = errors.New("score vector must hold 10 values")
)

// Tensor is a binarized 28x28 sample in row-major order.
type Tensor [TensorSize]float32

// Bytes encodes the tensor as float32 values in native byte order.
func (t *Tensor) Bytes() []byte {
	buf := make([]byte, TensorSize*4)
	for i, v := range t {
		binary.NativeEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func TensorFromBytes(b []byte) (Tensor, error) {
	var t Tensor
	if len(b) != TensorSize*4 {
		return t, errors.Wrapf(ErrTensorSize, "got %d bytes", len(b))
	}
	for i := range t {
		t[i] = math.Float32frombits(binary.NativeEndian.Uint32(b[i*4:]))
	}
	return t, nil
}

// Scores holds one confidence value per digit 0-9.
type Scores []float32

func (s Scores) Validate() error {
	if len(s) != NumClasses {
		return errors.Wrapf(ErrScoresSize, "got %d", len(s))
	}
	return nil
}

type ModelInfo struct {
	Engine string `json:"engine"`
	Source string `json:"source"`
	Inputs int    `json:"inputs"`
	Hidden int    `json:"hidden"`
	Labels int    `json:"labels"`
}

type DigitResult struct {
	Digit  int    `json:"digit"`
	Scores Scores `json:"scores"`
}

// InferenceResult is the outcome of one recognition request.
type InferenceResult struct {
	DigitResult
	Err error
}

func (r InferenceResult) Ok() bool { return r.Err == nil }

// ScoreReply is the websocket reply carrying one score vector.
type ScoreReply struct {
	Scores Scores `json:"scores,omitempty"`
	Error  string `json:"error,omitempty"`
}
