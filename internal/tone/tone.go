// Package tone plays the buzzer driven by the sound timer.
package tone

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ebitengine/oto/v3"
)

const (
	SampleRate = 44100
	Frequency  = 440
	Volume     = 0.2
)

// Generator is a square wave tone played through oto. Start and Stop may be
// called repeatedly; only state changes reach the audio device.
type Generator struct {
	ctx    *oto.Context
	player *oto.Player

	playing bool
	mutex   sync.Mutex
}

func New(sampleRate, frequency int) (*Generator, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio context: %w", err)
	}
	<-ready
	slog.Debug("tone: create audio context", "rate", sampleRate, "freq", frequency)

	return &Generator{
		ctx:    ctx,
		player: ctx.NewPlayer(newSquareWave(sampleRate, frequency, Volume)),
	}, nil
}

func (g *Generator) Start() {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if !g.playing {
		g.player.Play()
		g.playing = true
	}
}

func (g *Generator) Stop() {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if g.playing {
		g.player.Pause()
		g.playing = false
	}
}

func (g *Generator) Playing() bool {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return g.playing
}

func (g *Generator) Close() error {
	g.Stop()

	g.mutex.Lock()
	defer g.mutex.Unlock()
	return g.player.Close()
}

// squareWave is an endless stream of signed 16-bit little-endian samples.
type squareWave struct {
	period    int
	amplitude int16
	pos       int
}

func newSquareWave(sampleRate, frequency int, volume float64) *squareWave {
	period := 2
	if frequency > 0 && sampleRate/frequency > period {
		period = sampleRate / frequency
	}
	return &squareWave{
		period:    period,
		amplitude: int16(volume * 32767),
	}
}

func (w *squareWave) Read(p []byte) (int, error) {
	n := len(p) &^ 1
	for i := 0; i < n; i += 2 {
		sample := w.amplitude
		if w.pos >= w.period/2 {
			sample = -sample
		}
		binary.LittleEndian.PutUint16(p[i:], uint16(sample))

		w.pos++
		if w.pos >= w.period {
			w.pos = 0
		}
	}
	return n, nil
}
