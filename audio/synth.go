package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/reelspin/constants"
)

// Wave is an oscillator shape
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveTriangle
)

// oscillator generates a fixed-frequency tone, endless when total is zero
type oscillator struct {
	freq  float64
	phase float64
	pos   int
	total int
	wave  Wave
	rate  beep.SampleRate
}

// NewTone creates a tone of the given length; zero length streams forever
func NewTone(freq float64, length time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &oscillator{freq: freq, total: rate.N(length), wave: wave, rate: rate}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.total > 0 && o.pos >= o.total {
			return i, i > 0
		}

		var v float64
		switch o.wave {
		case WaveSquare:
			v = 1
			if o.phase >= 0.5 {
				v = -1
			}
		case WaveTriangle:
			v = 4*math.Abs(o.phase-0.5) - 1
		default:
			v = math.Sin(2 * math.Pi * o.phase)
		}
		samples[i][0] = v
		samples[i][1] = v

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.pos++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// fade shapes a finite stream with a linear attack and a linear release to its end
type fade struct {
	streamer beep.Streamer
	pos      int
	attack   int
	total    int
}

// NewFade wraps s, which must end after length
func NewFade(s beep.Streamer, length, attack time.Duration, rate beep.SampleRate) beep.Streamer {
	return &fade{streamer: s, attack: rate.N(attack), total: rate.N(length)}
}

func (f *fade) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 1.0
		if f.pos < f.attack {
			gain = float64(f.pos) / float64(f.attack)
		} else if f.total > f.attack {
			gain = 1 - float64(f.pos-f.attack)/float64(f.total-f.attack)
		}
		if gain < 0 {
			gain = 0
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		f.pos++
	}
	return n, ok
}

func (f *fade) Err() error { return f.streamer.Err() }

// gain scales s linearly; effects.Volume works in log space so zero maps to Silent
func gain(s beep.Streamer, g float64) beep.Streamer {
	if g <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(g)}
}

// spinLoop is the endless reel sound: a ratchet click per passing symbol over a motor hum
type spinLoop struct {
	rate     beep.SampleRate
	pos      int
	interval int
	click    int
}

func newSpinLoop(rate beep.SampleRate) *spinLoop {
	return &spinLoop{
		rate:     rate,
		interval: rate.N(constants.SpinClickInterval),
		click:    rate.N(constants.SpinClickDuration),
	}
}

func (g *spinLoop) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.rate)
		v := constants.SpinHumAmplitude * math.Sin(2*math.Pi*constants.SpinHumFrequency*t)

		if p := g.pos % g.interval; p < g.click {
			env := 1 - float64(p)/float64(g.click)
			ct := float64(p) / float64(g.rate)
			v += constants.SpinClickAmplitude * env * math.Sin(2*math.Pi*constants.SpinClickFrequency*ct)
		}

		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *spinLoop) Err() error { return nil }

// pad is the endless background: a root and fifth swelling over BackgroundPeriod
type pad struct {
	chord  beep.Streamer
	rate   beep.SampleRate
	pos    int
	period float64
}

func newPad(rate beep.SampleRate) *pad {
	root, _ := generators.SineTone(rate, constants.BackgroundFrequency)
	fifth, _ := generators.SineTone(rate, constants.BackgroundFrequency*1.5)
	return &pad{
		chord:  beep.Mix(gain(root, 0.6), gain(fifth, 0.4)),
		rate:   rate,
		period: constants.BackgroundPeriod.Seconds(),
	}
}

func (g *pad) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = g.chord.Stream(samples)
	for i := 0; i < n; i++ {
		t := float64(g.pos) / float64(g.rate)
		swell := constants.BackgroundAmplitude * (0.5 + 0.5*math.Sin(2*math.Pi*t/g.period))
		samples[i][0] *= swell
		samples[i][1] *= swell
		g.pos++
	}
	return n, ok
}

func (g *pad) Err() error { return g.chord.Err() }

// NewWinChime creates the two-note rising coin chime
func NewWinChime(rate beep.SampleRate) beep.Streamer {
	n1 := NewFade(NewTone(constants.WinNote1Frequency, constants.WinNote1Duration, WaveTriangle, rate),
		constants.WinNote1Duration, constants.WinAttack, rate)
	n2 := NewFade(NewTone(constants.WinNote2Frequency, constants.WinNote2Duration, WaveTriangle, rate),
		constants.WinNote2Duration, constants.WinAttack, rate)
	return gain(beep.Seq(n1, n2), constants.WinAmplitude)
}
