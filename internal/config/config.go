// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/levelview/internal/checkpoint"
)

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Asset    AssetConfig    `yaml:"asset"`
	Playback PlaybackConfig `yaml:"playback"`
	Audio    AudioConfig    `yaml:"audio"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	FOV        float32 `yaml:"fov"` // Vertical field of view in degrees

	ScreenshotDir string `yaml:"screenshot_dir"` // F12 captures land here
}

// AssetConfig points at the model to display.
type AssetConfig struct {
	Path string `yaml:"path"` // .gltf or .glb
}

// PlaybackConfig holds checkpoint seeking settings.
type PlaybackConfig struct {
	Checkpoints  checkpoint.List `yaml:"checkpoints"`
	MinSeekDelta float64         `yaml:"min_seek_delta"` // seconds
	Rate         float64         `yaml:"rate"`           // 1 = clip's native speed
}

// AudioConfig holds cue sound settings.
type AudioConfig struct {
	ArrivalSound string  `yaml:"arrival_sound"` // WAV played when a checkpoint is reached
	Volume       float64 `yaml:"volume"`
	Muted        bool    `yaml:"muted"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FOV:        45,

			ScreenshotDir: "screenshots",
		},
		Asset: AssetConfig{
			Path: "assets/model.glb",
		},
		Playback: PlaybackConfig{
			Checkpoints:  checkpoint.Default(),
			MinSeekDelta: 0.1,
			Rate:         1,
		},
		Audio: AudioConfig{
			Volume: 0.8,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validation errors.
var (
	ErrWindowSize = errors.New("window size must be positive")
	ErrFOV        = errors.New("fov must be between 1 and 179 degrees")
	ErrAssetPath  = errors.New("asset path is empty")
	ErrSeekDelta  = errors.New("min_seek_delta must be positive")
	ErrRate       = errors.New("playback rate must be positive")
)

// Validate reports the first setting the viewer cannot run with.
func (c *Config) Validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("%dx%d: %w", c.Graphics.Width, c.Graphics.Height, ErrWindowSize)
	}
	if c.Graphics.FOV < 1 || c.Graphics.FOV > 179 {
		return fmt.Errorf("fov %v: %w", c.Graphics.FOV, ErrFOV)
	}
	if c.Asset.Path == "" {
		return ErrAssetPath
	}
	if err := c.Playback.Checkpoints.Validate(); err != nil {
		return fmt.Errorf("playback.checkpoints: %w", err)
	}
	if c.Playback.MinSeekDelta <= 0 {
		return ErrSeekDelta
	}
	if c.Playback.Rate <= 0 {
		return ErrRate
	}
	return nil
}
