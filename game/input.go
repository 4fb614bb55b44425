package game

// Key is a logical game key, mapped to physical keys by the front end
type Key int

const (
	KeyPause Key = iota
	KeySpell
	KeySubmit
	KeyBackspace
)

// Input answers per-frame key queries
type Input interface {
	// JustPressed reports whether key went down this frame
	JustPressed(key Key) bool

	// TypedDigits returns digits typed this frame, in order
	TypedDigits() []rune
}

// NoInput never reports a key
type NoInput struct{}

func (NoInput) JustPressed(Key) bool { return false }
func (NoInput) TypedDigits() []rune  { return nil }

// AnswerBuffer holds the digits typed for the current question
type AnswerBuffer struct {
	text   []rune
	maxLen int
}

// NewAnswerBuffer creates a buffer accepting up to maxLen digits
func NewAnswerBuffer(maxLen int) *AnswerBuffer {
	if maxLen <= 0 {
		maxLen = 3
	}
	return &AnswerBuffer{maxLen: maxLen}
}

// Type appends a digit; non-digits and overflow are ignored
func (b *AnswerBuffer) Type(r rune) bool {
	if r < '0' || r > '9' || len(b.text) >= b.maxLen {
		return false
	}
	b.text = append(b.text, r)
	return true
}

// Backspace removes the last digit
func (b *AnswerBuffer) Backspace() bool {
	if len(b.text) == 0 {
		return false
	}
	b.text = b.text[:len(b.text)-1]
	return true
}

// String returns the typed text
func (b *AnswerBuffer) String() string {
	return string(b.text)
}

// Empty reports whether nothing is typed
func (b *AnswerBuffer) Empty() bool {
	return len(b.text) == 0
}

// Clear empties the buffer
func (b *AnswerBuffer) Clear() {
	b.text = b.text[:0]
}
