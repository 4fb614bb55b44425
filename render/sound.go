package render

import (
	"bytes"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"mathwizard/game"
)

const sampleRate = 44100

// beep describes a synthesized cue: a sine sweep from Freq to EndFreq
type beep struct {
	Freq    float64
	EndFreq float64
	Seconds float64
}

var soundBank = map[string]beep{
	game.SoundCorrect:  {Freq: 880, EndFreq: 1320, Seconds: 0.08},
	game.SoundWrong:    {Freq: 220, EndFreq: 160, Seconds: 0.15},
	game.SoundCast:     {Freq: 1200, EndFreq: 600, Seconds: 0.25},
	game.SoundEnemyHit: {Freq: 520, EndFreq: 260, Seconds: 0.1},
	game.SoundGameOver: {Freq: 440, EndFreq: 110, Seconds: 0.6},
}

// Sounds plays the cues named by events
type Sounds struct {
	players map[string]*audio.Player
	Muted   bool
}

// NewSounds synthesizes every cue into a player
func NewSounds() *Sounds {
	ctx := audio.NewContext(sampleRate)
	s := &Sounds{players: make(map[string]*audio.Player, len(soundBank))}
	for name, b := range soundBank {
		p, err := ctx.NewPlayer(bytes.NewReader(synthesize(b)))
		if err != nil {
			log.Printf("Failed to create %s player: %v", name, err)
			continue
		}
		p.SetVolume(0.5)
		s.players[name] = p
	}
	return s
}

// Play restarts the named cue. Unknown names are ignored.
func (s *Sounds) Play(name string) {
	if s == nil || s.Muted || name == "" {
		return
	}
	p, ok := s.players[name]
	if !ok {
		return
	}
	_ = p.Rewind()
	p.Play()
}

// synthesize renders b as 16-bit little-endian stereo PCM with a short fade-out
func synthesize(b beep) []byte {
	n := int(float64(sampleRate) * b.Seconds)
	pcm := make([]byte, n*4)
	amp := 0.35
	phase := 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n)
		freq := b.Freq + (b.EndFreq-b.Freq)*t
		phase += 2 * math.Pi * freq / sampleRate
		env := 1.0
		if t > 0.7 {
			env = (1 - t) / 0.3
		}
		v := int16(math.Sin(phase) * amp * env * 32767)
		pcm[4*i] = byte(v)
		pcm[4*i+1] = byte(v >> 8)
		pcm[4*i+2] = byte(v)
		pcm[4*i+3] = byte(v >> 8)
	}
	return pcm
}
