package config

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"
)

type EngineType string

const (
	EngineDense  EngineType = "dense"
	EngineRemote EngineType = "remote"

	DefaultConfigPath   string = "config.json"
	DefaultModelPath    string = "assets/digit.model"
	DefaultRemoteHost   string = "localhost:8080"
	DefaultListenAddr   string = ":8080"
	DefaultBrushWidth   int    = 18
	DefaultPadSize      int    = 280
	DefaultWindowWidth  int    = 420
	DefaultWindowHeight int    = 640
)

var EnginesList = [...]string{
	string(EngineDense),
	string(EngineRemote),
}

type ModelConfig struct {
	Path string `json:"path"`
	// Offset and Length select the artifact's byte range inside its
	// container file. Length 0 spans to the end of the file.
	Offset int64 `json:"offset"`
	Length int64 `json:"length"`
}

type RemoteConfig struct {
	Host string `json:"host"`
}

type ServerConfig struct {
	Listen string `json:"listen"`
}

type Config struct {
	mu sync.RWMutex

	Engine     EngineType `json:"engine"`
	BrushWidth int        `json:"brush_width"`
	PadSize    int        `json:"pad_size"`
	WinWidth   int        `json:"window_width"`
	WinHeight  int        `json:"window_height"`
	LogLevel   string     `json:"log_level"`
	SentryDSN  string     `json:"sentry_dsn"`

	Model  ModelConfig  `json:"model"`
	Remote RemoteConfig `json:"remote"`
	Server ServerConfig `json:"server"`
}

func (c *Config) GetBrushWidth() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.BrushWidth
}

func (c *Config) SetBrushWidth(width int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.BrushWidth = width
}

func (c *Config) GetEngine() EngineType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Engine
}

func (c *Config) SetEngine(e EngineType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Engine = e
}

func (c *Config) GetModel() ModelConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Model
}

func (c *Config) SetModelPath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Model.Path = path
}

func (c *Config) GetRemoteHost() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Remote.Host
}

func (c *Config) GetListenAddr() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Server.Listen
}

func (c *Config) Save(path string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrap(err, "open config")
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(c), "encode config")
}

// SaveBrushWidth writes the brush width onto the config stored at path,
// leaving every other stored field as it is. Command-line overrides on c
// are never persisted.
func (c *Config) SaveBrushWidth(path string) error {
	stored := LoadConfigFile(path)
	stored.SetBrushWidth(c.GetBrushWidth())
	return stored.Save(path)
}

func (c *Config) SaveByDefault() error {
	return c.Save(DefaultConfigPath)
}

// LoadConfigFile returns the defaults overlaid with whatever path holds.
// A missing or unreadable file yields the defaults.
func LoadConfigFile(path string) *Config {
	cfg := NewDefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg
	}
	defer f.Close()

	loaded := NewDefaultConfig()
	if err := json.NewDecoder(f).Decode(loaded); err != nil {
		return cfg
	}
	loaded.normalize()

	return loaded
}

func (c *Config) normalize() {
	def := NewDefaultConfig()
	if c.Engine != EngineDense && c.Engine != EngineRemote {
		c.Engine = def.Engine
	}
	if c.BrushWidth <= 0 {
		c.BrushWidth = def.BrushWidth
	}
	if c.PadSize <= 0 {
		c.PadSize = def.PadSize
	}
	if c.WinWidth <= 0 || c.WinHeight <= 0 {
		c.WinWidth, c.WinHeight = def.WinWidth, def.WinHeight
	}
	if c.Model.Offset < 0 || c.Model.Length < 0 {
		c.Model.Offset, c.Model.Length = 0, 0
	}
}

func NewDefaultConfig() *Config {
	return &Config{
		Engine:     EngineDense,
		BrushWidth: DefaultBrushWidth,
		PadSize:    DefaultPadSize,
		WinWidth:   DefaultWindowWidth,
		WinHeight:  DefaultWindowHeight,
		LogLevel:   "info",
		Model:      ModelConfig{Path: DefaultModelPath},
		Remote:     RemoteConfig{Host: DefaultRemoteHost},
		Server:     ServerConfig{Listen: DefaultListenAddr},
	}
}
