package audio

import (
	"errors"
	"io"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

const SampleRate = beep.SampleRate(44100)

var ErrEmptySeries = errors.New("audio: empty series")

// Gm7add9 voiced low: G2, Bb2, D3, F3, A3.
var padFreqs = []float64{98.00, 116.54, 146.83, 174.61, 220.00}

// Pad is an ambient synth whose filter opens with the energy of a recorded
// run. Stereo triangle oscillators, detuned slightly, pass through a
// one-pole low pass and a cross-fed delay.
type Pad struct {
	sr      beep.SampleRate
	times   []float64
	energy  []float64
	peak    float64
	scale   float64 // simulation seconds per audio second
	samples int
	pos     int

	smooth      float64
	filterState [2]float64
	delayLine   [2][]float64
	delayHead   int
	events      []float64
	nextEvent   int
	click       int
}

// NewPad maps the series onto length of audio. events are simulation
// times at which a short click is mixed in, for instance collisions.
func NewPad(sr beep.SampleRate, times, energy []float64, length time.Duration, events []float64) (*Pad, error) {
	n := min(len(times), len(energy))
	if n == 0 {
		return nil, ErrEmptySeries
	}
	span := times[n-1] - times[0]
	secs := length.Seconds()
	if secs <= 0 {
		secs = math.Max(span, 1)
	}

	peak := 0.0
	for _, e := range energy[:n] {
		peak = math.Max(peak, e)
	}

	// 0.6 second delay for a larger space.
	delayLen := int(float64(sr) * 0.6)
	return &Pad{
		sr:        sr,
		times:     times[:n],
		energy:    energy[:n],
		peak:      peak,
		scale:     span / secs,
		samples:   sr.N(time.Duration(secs * float64(time.Second))),
		delayLine: [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
		events:    events,
	}, nil
}

// energyAt interpolates the normalised energy at simulation time t.
func (p *Pad) energyAt(t float64) float64 {
	if p.peak <= 0 {
		return 0
	}
	i := 0
	for i < len(p.times)-1 && p.times[i+1] < t {
		i++
	}
	if i == len(p.times)-1 {
		return p.energy[i] / p.peak
	}
	t0, t1 := p.times[i], p.times[i+1]
	frac := 0.0
	if t1 > t0 {
		frac = math.Max(0, math.Min(1, (t-t0)/(t1-t0)))
	}
	return (p.energy[i] + frac*(p.energy[i+1]-p.energy[i])) / p.peak
}

func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// lpf is a one-pole low pass filter.
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

func (p *Pad) Stream(samples [][2]float64) (n int, ok bool) {
	if p.pos >= p.samples {
		return 0, false
	}
	dt := 1.0 / float64(p.sr)
	const vol = 0.25

	for i := range samples {
		if p.pos >= p.samples {
			return i, true
		}
		at := float64(p.pos) * dt
		simT := p.times[0] + at*p.scale

		// Slow morph so the filter never jumps.
		p.smooth = p.smooth*0.995 + p.energyAt(simT)*0.005
		cutoff := 300.0 + 900.0*p.smooth

		var left, right float64
		for j, f := range padFreqs {
			g := 1.0 / float64(len(padFreqs))
			lfo := math.Sin(at*0.2 + float64(j))
			left += triangle(at*f*0.999) * g * (0.7 + 0.3*lfo)
			right += triangle(at*f*1.001) * g * (0.7 + 0.3*lfo)
		}

		for p.nextEvent < len(p.events) && p.events[p.nextEvent] <= simT {
			p.click = p.sr.N(30 * time.Millisecond)
			p.nextEvent++
		}
		if p.click > 0 {
			env := float64(p.click) / float64(p.sr.N(30*time.Millisecond))
			c := 0.4 * env * math.Sin(2*math.Pi*880*at)
			left += c
			right += c
			p.click--
		}

		p.filterState[0] = lpf(left, cutoff, dt, p.filterState[0])
		p.filterState[1] = lpf(right, cutoff, dt, p.filterState[1])
		outL, outR := p.filterState[0], p.filterState[1]

		delayL := p.delayLine[0][p.delayHead]
		delayR := p.delayLine[1][p.delayHead]
		mixL := outL + delayL*0.3 + delayR*0.1
		mixR := outR + delayR*0.3 + delayL*0.1
		p.delayLine[0][p.delayHead] = mixL * 0.7
		p.delayLine[1][p.delayHead] = mixR * 0.7
		p.delayHead = (p.delayHead + 1) % len(p.delayLine[0])

		samples[i][0] = clamp(mixL * vol)
		samples[i][1] = clamp(mixR * vol)
		p.pos++
	}
	return len(samples), true
}

func (p *Pad) Err() error { return nil }

// Len is the total number of samples the pad produces.
func (p *Pad) Len() int { return p.samples }

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// EventTimes expands a per-tick count series, such as collisions, into one
// event time per tick with a non-zero count.
func EventTimes(times, counts []float64) []float64 {
	var out []float64
	for i := 0; i < min(len(times), len(counts)); i++ {
		if counts[i] > 0 {
			out = append(out, times[i])
		}
	}
	return out
}

// WriteWAV encodes s as 16-bit stereo WAV.
func WriteWAV(w io.WriteSeeker, s beep.Streamer, sr beep.SampleRate) error {
	return wav.Encode(w, s, beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2})
}
