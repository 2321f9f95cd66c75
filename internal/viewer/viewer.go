// Package viewer owns the application state of the model viewer: the scene,
// the fixed camera, the animation controller and the level buttons. It talks
// to the GPU only through the Renderer and Overlay interfaces.
package viewer

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/levelview/internal/asset"
	"github.com/Faultbox/levelview/internal/checkpoint"
	"github.com/Faultbox/levelview/internal/engine/anim"
	"github.com/Faultbox/levelview/internal/engine/camera"
	"github.com/Faultbox/levelview/internal/engine/scene"
	"github.com/Faultbox/levelview/internal/playback"
)

var (
	ErrDisabled      = errors.New("level buttons disabled")
	ErrUnknownButton = errors.New("unknown button")
)

// Renderer draws the 3D scene.
type Renderer interface {
	Render(s *scene.Scene, cam *camera.Perspective)
	Resize(width, height int)
}

// Overlay draws the level buttons and status line. Draw returns the ID of
// the button clicked this frame, or "".
type Overlay interface {
	Draw(buttons []Button, status Status) string
	Resize(width, height int)
}

// Cue plays the checkpoint arrival sound.
type Cue interface {
	Play() error
}

// Config holds viewer settings.
type Config struct {
	Width        int
	Height       int
	FOV          float32 // degrees
	Checkpoints  checkpoint.List
	MinSeekDelta float64 // seconds; zero selects playback.DefaultMinDelta
	Rate         float64
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithLogger sets the viewer logger.
func WithLogger(l *zap.Logger) Option {
	return func(v *Viewer) {
		if l != nil {
			v.log = l
		}
	}
}

// WithCue sets the arrival cue player.
func WithCue(c Cue) Option {
	return func(v *Viewer) { v.cue = c }
}

// Viewer is the single owned application state.
type Viewer struct {
	log *zap.Logger

	scene      *scene.Scene
	camera     *camera.Perspective
	mixer      *anim.Mixer
	controller *playback.Controller
	bar        *LevelBar

	model   *asset.Model
	action  *anim.Action
	status  Status
	pending <-chan asset.Result

	renderer Renderer
	overlay  Overlay
	cue      Cue
}

// New creates a viewer with an empty scene. Nothing is drawn until a model
// arrives through Load, Await or HandleLoad.
func New(cfg Config, r Renderer, o Overlay, opts ...Option) *Viewer {
	v := &Viewer{
		log:      zap.NewNop(),
		scene:    scene.New(),
		mixer:    anim.NewMixer(),
		renderer: r,
		overlay:  o,
		status:   Status{Kind: StatusLoading},
	}
	for _, opt := range opts {
		opt(v)
	}

	aspect := float32(1)
	if cfg.Width > 0 && cfg.Height > 0 {
		aspect = float32(cfg.Width) / float32(cfg.Height)
	}
	fov := cfg.FOV
	if fov <= 0 {
		fov = 45
	}
	v.camera = camera.NewPerspective(fov, aspect, 0.1, 1000)

	list := cfg.Checkpoints
	if len(list) == 0 {
		list = checkpoint.Default()
	}
	minDelta := cfg.MinSeekDelta
	if minDelta <= 0 {
		minDelta = playback.DefaultMinDelta
	}
	v.controller = playback.NewController(list,
		playback.WithMinDelta(minDelta),
		playback.WithRate(cfg.Rate),
		playback.WithLogger(v.log.Named("playback")),
	)
	v.bar = NewLevelBar(list, v.controller.Request)
	v.controller.OnChange(v.onChange)

	return v
}

// Load starts loading path in the background. The result is picked up by
// a later Frame.
func (v *Viewer) Load(ctx context.Context, path string) {
	v.Await(asset.LoadAsync(ctx, path, v.log.Named("asset")))
}

// Await makes Frame poll ch for a load result.
func (v *Viewer) Await(ch <-chan asset.Result) {
	v.pending = ch
	v.status = Status{Kind: StatusLoading}
}

// HandleLoad installs a loaded model, or records the failure.
func (v *Viewer) HandleLoad(res asset.Result) {
	if res.Err != nil {
		v.status = Status{Kind: StatusFailed, Err: res.Err}
		v.log.Error("model unavailable", zap.Error(res.Err))
		return
	}
	if v.model != nil {
		v.log.Warn("model already loaded, ignoring", zap.String("source", res.Model.Source))
		return
	}

	m := res.Model
	v.model = m
	v.scene.Add(m.Root)

	box := scene.BoundsOf(m.Root)
	center := box.Center()
	m.Root.Translation = m.Root.Translation.Sub(center)
	v.camera.FitIsometric(box)

	v.log.Info("model placed",
		zap.String("source", m.Source),
		zap.Float32("max_dimension", box.MaxDimension()),
		zap.Float32("camera_distance", v.camera.Distance()),
	)

	clip := m.Clip()
	if clip == nil {
		v.status = Status{Kind: StatusNoAnimation}
		v.log.Warn("model has no animation, level buttons stay disabled")
		return
	}
	if len(m.Clips) > 1 {
		v.log.Info("using first animation clip",
			zap.String("clip", clip.Name),
			zap.Int("clips", len(m.Clips)),
		)
	}

	v.action = v.mixer.ClipAction(clip)
	v.controller.Attach(v.action)
	v.mixer.Apply()
	v.bar.Enable()
	v.status = Status{Kind: StatusReady}
}

// Frame advances playback by dt seconds and draws one frame. It never
// blocks.
func (v *Viewer) Frame(dt float64) {
	v.poll()

	v.mixer.Update(dt)
	if v.controller.Settle() {
		v.mixer.Apply()
	}

	if v.renderer != nil {
		v.renderer.Render(v.scene, v.camera)
	}
	if v.overlay != nil {
		if id := v.overlay.Draw(v.bar.Buttons(), v.status); id != "" {
			v.handle(v.bar.Click(id))
		}
	}
}

func (v *Viewer) poll() {
	if v.pending == nil {
		return
	}
	select {
	case res, ok := <-v.pending:
		v.pending = nil
		if !ok {
			res = asset.Result{Err: errors.New("load channel closed without result")}
		}
		v.HandleLoad(res)
	default:
	}
}

// Resize updates the camera aspect and the render targets. Playback state
// is untouched.
func (v *Viewer) Resize(width, height int) {
	v.camera.SetViewport(width, height)
	if v.renderer != nil {
		v.renderer.Resize(width, height)
	}
	if v.overlay != nil {
		v.overlay.Resize(width, height)
	}
}

// Press requests a checkpoint as if its button was clicked.
func (v *Viewer) Press(level int) error {
	err := v.bar.Press(level)
	v.handle(err)
	return err
}

func (v *Viewer) handle(err error) {
	switch {
	case err == nil:
	case errors.Is(err, playback.ErrBusy), errors.Is(err, playback.ErrNoChange), errors.Is(err, ErrDisabled):
		v.log.Debug("level request dropped", zap.Error(err))
	default:
		v.log.Warn("level request failed", zap.Error(err))
	}
}

func (v *Viewer) onChange(ch playback.Change) {
	v.bar.Sync(ch.Level)
	if !ch.Arrived {
		return
	}
	v.log.Info("checkpoint reached", zap.Int("level", ch.Level))
	if v.cue != nil {
		if err := v.cue.Play(); err != nil {
			v.log.Debug("arrival cue", zap.Error(err))
		}
	}
}

// Status returns the load status.
func (v *Viewer) Status() Status { return v.status }

// Scene returns the scene graph.
func (v *Viewer) Scene() *scene.Scene { return v.scene }

// Camera returns the fixed camera.
func (v *Viewer) Camera() *camera.Perspective { return v.camera }

// Controller returns the checkpoint controller.
func (v *Viewer) Controller() *playback.Controller { return v.controller }

// Action returns the playback handle, or nil before a clip is attached.
func (v *Viewer) Action() *anim.Action { return v.action }

// Buttons returns the current level button state.
func (v *Viewer) Buttons() []Button { return v.bar.Buttons() }

// Model returns the loaded model, or nil.
func (v *Viewer) Model() *asset.Model { return v.model }
