package engine

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"calculator/internal/config"
)

// LoadResult is the outcome of instantiating the model at startup. A failed
// load disables recognition for the whole session.
type LoadResult struct {
	Model Model
	Err   error
}

func (r LoadResult) Ready() bool { return r.Err == nil && r.Model != nil }

// Close releases the model handle; safe to call on a failed load.
func (r LoadResult) Close() error {
	if !r.Ready() {
		return nil
	}
	return r.Model.Close()
}

// Load instantiates the configured engine; entry carries the caller's log
// fields into the engine.
func Load(cfg *config.Config, entry *log.Entry) LoadResult {
	m, err := newModel(cfg, entry)
	if err != nil {
		return LoadResult{Err: err}
	}
	return LoadResult{Model: m}
}

func newModel(cfg *config.Config, entry *log.Entry) (Model, error) {
	switch cfg.GetEngine() {
	case config.EngineDense:
		mc := cfg.GetModel()
		art, err := MapArtifact(mc.Path, mc.Offset, mc.Length)
		if err != nil {
			return nil, err
		}
		m, err := NewDenseModel(art)
		if err != nil {
			art.Close()
			return nil, err
		}
		return m, nil
	case config.EngineRemote:
		m := NewRemoteModel(cfg.GetRemoteHost(), entry)
		if err := m.Connect(); err != nil {
			m.Close()
			return nil, err
		}
		return m, nil
	default:
		return nil, errors.Errorf("unknown engine: %s", cfg.GetEngine())
	}
}
