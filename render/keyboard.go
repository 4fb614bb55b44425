package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"mathwizard/game"
)

// DefaultBindings maps logical game keys to physical keys
var DefaultBindings = map[game.Key][]ebiten.Key{
	game.KeyPause:     {ebiten.KeyP, ebiten.KeyEscape},
	game.KeySpell:     {ebiten.KeySpace},
	game.KeySubmit:    {ebiten.KeyEnter, ebiten.KeyNumpadEnter},
	game.KeyBackspace: {ebiten.KeyBackspace},
}

// KeyboardInput implements game.Input on top of ebiten's keyboard state.
// Call Poll once per frame before the game update.
type KeyboardInput struct {
	Bindings map[game.Key][]ebiten.Key

	chars  []rune
	digits []rune
}

// NewKeyboardInput creates an input source with the default bindings
func NewKeyboardInput() *KeyboardInput {
	return &KeyboardInput{Bindings: DefaultBindings}
}

// Poll collects the characters typed this frame
func (k *KeyboardInput) Poll() {
	k.chars = ebiten.AppendInputChars(k.chars[:0])
	k.digits = appendDigits(k.digits[:0], k.chars)
}

// JustPressed reports whether any physical key bound to key went down this frame
func (k *KeyboardInput) JustPressed(key game.Key) bool {
	for _, physical := range k.Bindings[key] {
		if inpututil.IsKeyJustPressed(physical) {
			return true
		}
	}
	return false
}

// TypedDigits returns the digits typed this frame. Numpad digits arrive as
// input characters too.
func (k *KeyboardInput) TypedDigits() []rune {
	return k.digits
}

func appendDigits(dst, chars []rune) []rune {
	for _, r := range chars {
		if r >= '0' && r <= '9' {
			dst = append(dst, r)
		}
	}
	return dst
}

// pressedAny reports whether any of keys went down this frame
func pressedAny(keys ...ebiten.Key) bool {
	for _, key := range keys {
		if inpututil.IsKeyJustPressed(key) {
			return true
		}
	}
	return false
}
