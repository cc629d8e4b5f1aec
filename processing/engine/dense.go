package engine

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"sync"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"calculator/internal/models"
)

// Dense artifacts start with a 16 byte header: the magic followed by the
// input, hidden and class counts as little-endian uint32. Weights follow as
// little-endian float32, row-major, each layer's matrix before its bias.
// Hidden 0 means a single softmax layer.
const denseMagic = "DGT1"

var ErrBadArtifact = errors.New("malformed dense model artifact")

type denseLayer struct {
	w *mat.Dense
	b *mat.VecDense
}

type DenseModel struct {
	closeOnce sync.Once

	art    *Artifact
	layers []denseLayer
	info   models.ModelInfo
}

// DenseWeights is the decoded form of a dense artifact, used to write one.
type DenseWeights struct {
	Inputs  int
	Hidden  int
	Classes int

	W1, B1 []float32
	W2, B2 []float32
}

func NewDenseModel(art *Artifact) (*DenseModel, error) {
	data := art.Bytes()
	if len(data) < 16 || string(data[:4]) != denseMagic {
		return nil, errors.Wrap(ErrBadArtifact, "missing header")
	}

	inputs := int(binary.LittleEndian.Uint32(data[4:]))
	hidden := int(binary.LittleEndian.Uint32(data[8:]))
	classes := int(binary.LittleEndian.Uint32(data[12:]))

	if inputs != models.TensorSize || classes != models.NumClasses {
		return nil, errors.Wrapf(ErrBadArtifact, "shape %dx%d, want %dx%d",
			inputs, classes, models.TensorSize, models.NumClasses)
	}

	shapes := [][2]int{{classes, inputs}}
	if hidden > 0 {
		shapes = [][2]int{{hidden, inputs}, {classes, hidden}}
	}

	want := 16
	for _, s := range shapes {
		want += 4 * (s[0]*s[1] + s[0])
	}
	if len(data) != want {
		return nil, errors.Wrapf(ErrBadArtifact, "got %d bytes, want %d", len(data), want)
	}

	m := &DenseModel{
		art: art,
		info: models.ModelInfo{
			Engine: "dense",
			Source: art.Path(),
			Inputs: inputs,
			Hidden: hidden,
			Labels: classes,
		},
	}

	pos := 16
	for _, s := range shapes {
		rows, cols := s[0], s[1]
		w := mat.NewDense(rows, cols, readFloats(data[pos:], rows*cols))
		pos += 4 * rows * cols
		b := mat.NewVecDense(rows, readFloats(data[pos:], rows))
		pos += 4 * rows
		m.layers = append(m.layers, denseLayer{w: w, b: b})
	}

	return m, nil
}

func readFloats(b []byte, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:])))
	}
	return out
}

// Predict runs the forward pass. It only reads the decoded weights, so
// concurrent calls are safe.
func (m *DenseModel) Predict(t models.Tensor) (models.Scores, error) {
	if m.layers == nil {
		return nil, errors.New("dense model closed")
	}

	in := make([]float64, len(t))
	for i, v := range t {
		in[i] = float64(v)
	}
	x := mat.NewVecDense(len(in), in)

	for i, l := range m.layers {
		var y mat.VecDense
		y.MulVec(l.w, x)
		y.AddVec(&y, l.b)
		if i < len(m.layers)-1 {
			for j := 0; j < y.Len(); j++ {
				if y.AtVec(j) < 0 {
					y.SetVec(j, 0)
				}
			}
		}
		x = &y
	}

	return softmax(x), nil
}

func softmax(v *mat.VecDense) models.Scores {
	maxv := math.Inf(-1)
	for i := 0; i < v.Len(); i++ {
		maxv = math.Max(maxv, v.AtVec(i))
	}

	exp := make([]float64, v.Len())
	var sum float64
	for i := range exp {
		exp[i] = math.Exp(v.AtVec(i) - maxv)
		sum += exp[i]
	}

	out := make(models.Scores, len(exp))
	for i, e := range exp {
		out[i] = float32(e / sum)
	}
	return out
}

func (m *DenseModel) Info() models.ModelInfo { return m.info }

func (m *DenseModel) Close() (err error) {
	m.closeOnce.Do(func() {
		m.layers = nil
		err = m.art.Close()
	})
	return err
}

// WriteDense serializes w in the artifact layout NewDenseModel reads.
func WriteDense(dst io.Writer, w DenseWeights) error {
	var buf bytes.Buffer
	buf.WriteString(denseMagic)
	for _, n := range []int{w.Inputs, w.Hidden, w.Classes} {
		binary.Write(&buf, binary.LittleEndian, uint32(n))
	}

	parts := [][]float32{w.W1, w.B1}
	if w.Hidden > 0 {
		parts = append(parts, w.W2, w.B2)
	}
	for _, p := range parts {
		if err := binary.Write(&buf, binary.LittleEndian, p); err != nil {
			return errors.Wrap(err, "encode weights")
		}
	}

	_, err := dst.Write(buf.Bytes())
	return errors.Wrap(err, "write dense artifact")
}
