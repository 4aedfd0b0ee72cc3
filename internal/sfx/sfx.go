// Package sfx plays the short generated cues for catches, penalties and the
// end of a session.
package sfx

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
)

const sampleRate = beep.SampleRate(44100)

// Cue identifies a sound.
type Cue int

const (
	CueCatch Cue = iota
	CuePenalty
	CueEnd
)

// Player mixes cues onto the speaker. A Player whose Init failed (no audio
// device, headless CI) silently drops every cue.
type Player struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	volume float64
	ready  bool
	logger *zap.Logger
}

// New creates a player at volume (0..1). Call Init before playing.
func New(volume float64, logger *zap.Logger) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Player{mixer: &beep.Mixer{}, volume: volume, logger: logger}
}

// Init opens the speaker.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		p.logger.Warn("audio unavailable, sound disabled", zap.Error(err))
		return err
	}
	speaker.Play(p.mixer)
	p.ready = true
	return nil
}

// Close stops all cues.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.ready = false
}

// Play queues a cue. It never blocks on audio.
func (p *Player) Play(c Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	s := Stream(c, p.volume)
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Stream renders a cue as a finite streamer.
func Stream(c Cue, volume float64) beep.Streamer {
	switch c {
	case CuePenalty:
		return Tone(sampleRate, 140, 180*time.Millisecond, volume, square)
	case CueEnd:
		return beep.Seq(
			Tone(sampleRate, 523.25, 120*time.Millisecond, volume, sine),
			Tone(sampleRate, 659.25, 120*time.Millisecond, volume, sine),
			Tone(sampleRate, 783.99, 240*time.Millisecond, volume, sine),
		)
	}
	return Tone(sampleRate, 880, 90*time.Millisecond, volume, sine)
}

type wave func(phase float64) float64

func sine(phase float64) float64 { return math.Sin(2 * math.Pi * phase) }

func square(phase float64) float64 {
	if phase < 0.5 {
		return 0.6
	}
	return -0.6
}

// Tone is a single note with a linear decay envelope.
func Tone(sr beep.SampleRate, freq float64, d time.Duration, volume float64, w wave) beep.Streamer {
	total := sr.N(d)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= total {
				break
			}
			t := float64(pos) / float64(sr)
			env := 1 - float64(pos)/float64(total)
			v := w(math.Mod(t*freq, 1)) * env * volume
			samples[i][0] = v
			samples[i][1] = v
			pos++
			n++
		}
		return n, true
	})
}
