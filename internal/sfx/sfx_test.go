package sfx

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func drain(s beep.Streamer) (n int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		got, ok := s.Stream(buf)
		for i := 0; i < got; i++ {
			if v := math.Abs(buf[i][0]); v > peak {
				peak = v
			}
		}
		n += got
		if !ok {
			return n, peak
		}
	}
}

func TestTone_LengthAndVolume(t *testing.T) {
	n, peak := drain(Tone(sampleRate, 440, 50*time.Millisecond, 0.5, sine))
	if want := sampleRate.N(50 * time.Millisecond); n != want {
		t.Fatalf("tone length = %d samples, want %d", n, want)
	}
	if peak == 0 || peak > 0.5+1e-9 {
		t.Fatalf("peak = %.3f, want in (0, 0.5]", peak)
	}
}

func TestStream_EndCueIsThreeNotes(t *testing.T) {
	n, _ := drain(Stream(CueEnd, 1))
	want := sampleRate.N(120*time.Millisecond)*2 + sampleRate.N(240*time.Millisecond)
	if n != want {
		t.Fatalf("end cue length = %d, want %d", n, want)
	}
}

func TestPlayer_UninitialisedDropsCues(t *testing.T) {
	p := New(0.3, nil)
	p.Play(CueCatch)
	p.Close()
}
