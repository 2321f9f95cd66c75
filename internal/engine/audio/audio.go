// Package audio plays short sound cues.
package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"
)

// DefaultSampleRate is the speaker sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

var (
	// ErrNotInitialized is returned by Play before Init.
	ErrNotInitialized = errors.New("audio not initialized")
	// ErrNoCue is returned by Play when no cue is loaded.
	ErrNoCue = errors.New("no cue loaded")
)

// Player decodes one WAV cue into memory and replays it on demand.
type Player struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate
	mixer       *beep.Mixer

	cue     *beep.Buffer
	cuePath string

	volume float64 // 0.0 to 1.0
	muted  bool

	log *zap.Logger
}

// New creates a player at the given volume.
func New(volume float64, log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	return &Player{
		sampleRate: DefaultSampleRate,
		mixer:      &beep.Mixer{},
		volume:     clamp(volume, 0, 1),
		log:        log,
	}
}

// Init opens the speaker and starts the mixer.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close stops playback.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		speaker.Clear()
		p.initialized = false
	}
}

// Load decodes the WAV file at path, resampling to the speaker rate.
func (p *Player) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open cue %s: %w", path, err)
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return fmt.Errorf("decode wav %s: %w", path, err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != p.sampleRate {
		s = beep.Resample(4, format.SampleRate, p.sampleRate, streamer)
	}

	buf := beep.NewBuffer(beep.Format{
		SampleRate:  p.sampleRate,
		NumChannels: format.NumChannels,
		Precision:   format.Precision,
	})
	buf.Append(s)

	p.mu.Lock()
	p.cue = buf
	p.cuePath = path
	p.mu.Unlock()

	p.log.Debug("cue loaded",
		zap.String("path", path),
		zap.Int("samples", buf.Len()),
	)
	return nil
}

// Loaded reports whether a cue is ready to play.
func (p *Player) Loaded() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cue != nil
}

// Play starts the cue from the beginning. Overlapping plays mix.
func (p *Player) Play() error {
	p.mu.RLock()
	initialized, cue := p.initialized, p.cue
	vol, muted := p.volume, p.muted
	p.mu.RUnlock()

	if !initialized {
		return ErrNotInitialized
	}
	if cue == nil {
		return ErrNoCue
	}
	if muted {
		return nil
	}

	v := &effects.Volume{
		Streamer: cue.Streamer(0, cue.Len()),
		Base:     dbBase,
		Volume:   volumeToDb(vol),
		Silent:   vol <= 0,
	}

	speaker.Lock()
	p.mixer.Add(v)
	speaker.Unlock()
	return nil
}

// SetVolume sets the cue volume (0.0 to 1.0).
func (p *Player) SetVolume(vol float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = clamp(vol, 0, 1)
}

// Volume returns the cue volume.
func (p *Player) Volume() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.volume
}

// SetMuted toggles muting.
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = muted
}

// Muted reports whether the player is muted.
func (p *Player) Muted() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.muted
}

// dbBase makes effects.Volume interpret Volume as decibels.
var dbBase = math.Pow(10, 1.0/20)

// volumeToDb converts a 0-1 volume to decibels: 1 is 0 dB, 0.5 about -6 dB.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return 20 * math.Log10(vol)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
