package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFileMissingReturnsDefaults(t *testing.T) {
	cfg := LoadConfigFile(filepath.Join(t.TempDir(), "nope.json"))

	assert.Equal(t, EngineDense, cfg.GetEngine())
	assert.Equal(t, DefaultBrushWidth, cfg.GetBrushWidth())
	assert.Equal(t, DefaultModelPath, cfg.GetModel().Path)
}

func TestLoadConfigFileCorruptReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	cfg := LoadConfigFile(path)
	assert.Equal(t, DefaultRemoteHost, cfg.Remote.Host)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := NewDefaultConfig()
	cfg.SetBrushWidth(7)
	cfg.SetEngine(EngineRemote)
	cfg.SetModelPath("/opt/models/app.bin")
	cfg.Model.Offset = 4096
	cfg.Model.Length = 31400
	require.NoError(t, cfg.Save(path))

	loaded := LoadConfigFile(path)
	assert.Equal(t, 7, loaded.GetBrushWidth())
	assert.Equal(t, EngineRemote, loaded.GetEngine())
	assert.Equal(t, ModelConfig{Path: "/opt/models/app.bin", Offset: 4096, Length: 31400}, loaded.GetModel())
}

func TestLoadConfigFileNormalizesInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"engine":"tflite","brush_width":-3,"pad_size":0,"model":{"path":"m","offset":-1,"length":5}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg := LoadConfigFile(path)
	assert.Equal(t, EngineDense, cfg.Engine)
	assert.Equal(t, DefaultBrushWidth, cfg.BrushWidth)
	assert.Equal(t, DefaultPadSize, cfg.PadSize)
	assert.Equal(t, int64(0), cfg.Model.Offset)
	assert.Equal(t, int64(0), cfg.Model.Length)
	assert.Equal(t, "m", cfg.Model.Path)
}

func TestSaveBrushWidthKeepsStoredFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	stored := NewDefaultConfig()
	stored.SetModelPath("models/stored.model")
	require.NoError(t, stored.Save(path))

	running := LoadConfigFile(path)
	running.SetModelPath("/tmp/override.model")
	running.SetEngine(EngineRemote)
	running.SetBrushWidth(30)
	require.NoError(t, running.SaveBrushWidth(path))

	got := LoadConfigFile(path)
	assert.Equal(t, 30, got.GetBrushWidth())
	assert.Equal(t, "models/stored.model", got.GetModel().Path)
	assert.Equal(t, EngineDense, got.GetEngine())
}

func TestSaveBrushWidthCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := NewDefaultConfig()
	cfg.SetModelPath("/tmp/override.model")
	cfg.SetBrushWidth(7)
	require.NoError(t, cfg.SaveBrushWidth(path))

	got := LoadConfigFile(path)
	assert.Equal(t, 7, got.GetBrushWidth())
	assert.Equal(t, DefaultModelPath, got.GetModel().Path)
}
