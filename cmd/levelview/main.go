// Package main is the levelview model viewer: one animated glTF model, a
// fixed isometric camera and five checkpoint buttons.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/levelview/internal/config"
	"github.com/Faultbox/levelview/internal/engine/audio"
	"github.com/Faultbox/levelview/internal/engine/debug"
	"github.com/Faultbox/levelview/internal/engine/input"
	"github.com/Faultbox/levelview/internal/engine/renderer"
	"github.com/Faultbox/levelview/internal/engine/window"
	"github.com/Faultbox/levelview/internal/logger"
	"github.com/Faultbox/levelview/internal/viewer"
	"github.com/Faultbox/levelview/internal/viewer/hud"
)

const windowTitle = "levelview"

// maxFrameDt caps the step after a stall such as a window drag.
const maxFrameDt = 0.1

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if config.InitConfig() {
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(filepath.Join(config.ConfigDir(), config.FileName))
		return
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if config.PickAsset() {
		path, err := dialog.File().
			Filter("glTF models", "glb", "gltf").
			Filter("All Files", "*").
			Title("Open model").
			Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				logger.Error("file dialog failed", zap.Error(err))
			}
			os.Exit(1)
		}
		cfg.Asset.Path = path
	}

	if err := run(cfg); err != nil {
		logger.Error("levelview failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("levelview closed normally")
}

func run(cfg *config.Config) error {
	logger.Info("=== levelview ===", zap.String("asset", cfg.Asset.Path))

	win, err := window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	}, logger.Named("window"))
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer win.Close()

	dw, dh := win.DrawableSize()
	ww, _ := win.Size()

	rend, err := renderer.New(renderer.Config{Width: dw, Height: dh}, logger.Named("renderer"))
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	defer rend.Close()

	overlay, err := hud.New(win.Size())
	if err != nil {
		return fmt.Errorf("create overlay: %w", err)
	}
	defer overlay.Close()
	if ww > 0 {
		overlay.SetScale(float32(dw) / float32(ww))
	}

	opts := []viewer.Option{viewer.WithLogger(logger.Named("viewer"))}
	if cue := newCue(cfg); cue != nil {
		defer cue.Close()
		opts = append(opts, viewer.WithCue(cue))
	}

	v := viewer.New(viewer.Config{
		Width:        dw,
		Height:       dh,
		FOV:          cfg.Graphics.FOV,
		Checkpoints:  cfg.Playback.Checkpoints,
		MinSeekDelta: cfg.Playback.MinSeekDelta,
		Rate:         cfg.Playback.Rate,
	}, rend, overlay, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	v.Load(ctx, cfg.Asset.Path)

	shots := debug.NewScreenshots(cfg.Graphics.ScreenshotDir, windowTitle)
	shoot := false

	in := input.New()
	last := time.Now()
	for {
		if quit := in.Update(); quit {
			return nil
		}

		mouse := overlay.Input()
		for _, e := range in.Events() {
			switch e.Type {
			case input.EventWindowResize:
				dw, dh := win.DrawableSize()
				ww, _ := win.Size()
				if ww > 0 {
					overlay.SetScale(float32(dw) / float32(ww))
				}
				v.Resize(dw, dh)
			case input.EventMouseMove:
				mouse.MouseX, mouse.MouseY = float32(e.MouseX), float32(e.MouseY)
			case input.EventMouseDown:
				if e.Button == sdl.BUTTON_LEFT {
					mouse.MouseLeftDown = true
					mouse.MouseLeftClicked = true
				}
			case input.EventMouseUp:
				if e.Button == sdl.BUTTON_LEFT {
					mouse.MouseLeftDown = false
				}
			case input.EventKeyDown:
				// Keys 1-5 select levels 0-4.
				if e.Digit > 0 {
					v.Press(e.Digit - 1)
				}
				if e.Key == sdl.K_F12 {
					shoot = true
				}
			}
		}

		now := time.Now()
		dt := min(now.Sub(last).Seconds(), maxFrameDt)
		last = now

		v.Frame(dt)
		if shoot {
			shoot = false
			if path, err := shots.SavePixels(rend.ReadPixels()); err != nil {
				logger.Warn("screenshot failed", zap.Error(err))
			} else {
				logger.Info("screenshot saved", zap.String("path", path))
			}
		}
		win.SwapBuffers()
	}
}

// newCue loads the arrival sound. Audio problems never stop the viewer.
func newCue(cfg *config.Config) *audio.Player {
	if cfg.Audio.ArrivalSound == "" || cfg.Audio.Muted {
		return nil
	}
	log := logger.Named("audio")
	p := audio.New(cfg.Audio.Volume, log)
	if err := p.Load(cfg.Audio.ArrivalSound); err != nil {
		log.Warn("arrival cue disabled", zap.Error(err))
		return nil
	}
	if err := p.Init(); err != nil {
		log.Warn("arrival cue disabled", zap.Error(err))
		return nil
	}
	return p
}
