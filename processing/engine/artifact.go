package engine

import (
	"os"
	"sync"

	"github.com/pkg/errors"
)

var ErrArtifactRange = errors.New("artifact range outside container")

// Artifact is a read-only view of a model's byte range inside its
// container file. The view stays valid until Close.
type Artifact struct {
	closeOnce sync.Once

	path    string
	data    []byte
	release func() error
}

func MapArtifact(path string, offset, length int64) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open model artifact")
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "stat model artifact")
	}

	if offset < 0 || length < 0 || offset > st.Size() {
		return nil, errors.Wrapf(ErrArtifactRange, "offset %d length %d size %d", offset, length, st.Size())
	}
	if length == 0 {
		length = st.Size() - offset
	}
	if length == 0 || offset+length > st.Size() {
		return nil, errors.Wrapf(ErrArtifactRange, "offset %d length %d size %d", offset, length, st.Size())
	}

	data, release, err := mapRegion(f, offset, length)
	if err != nil {
		return nil, errors.Wrap(err, "map model artifact")
	}

	return &Artifact{path: path, data: data, release: release}, nil
}

func (a *Artifact) Bytes() []byte { return a.data }

func (a *Artifact) Path() string { return a.path }

func (a *Artifact) Close() (err error) {
	a.closeOnce.Do(func() {
		a.data = nil
		if a.release != nil {
			err = a.release()
		}
	})
	return err
}
