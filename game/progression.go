package game

// Progression tracks the wizard's level and EXP
type Progression struct {
	Level      int
	CurrentExp int
	ExpToNext  int
}

// NewProgression starts at level 1
func NewProgression(expToNext int) Progression {
	if expToNext <= 0 {
		expToNext = 3
	}
	return Progression{Level: 1, ExpToNext: expToNext}
}

// Add banks EXP and reports whether a level-up is due
func (p *Progression) Add(amount int) bool {
	if amount > 0 {
		p.CurrentExp += amount
	}
	return p.Ready()
}

// Ready reports whether enough EXP is banked for the next level
func (p *Progression) Ready() bool {
	return p.CurrentExp >= p.ExpToNext
}

// LevelUp spends one threshold worth of EXP, carrying the remainder.
// Each level costs one more than the last: 3, 6, 10, 15, ...
func (p *Progression) LevelUp() {
	p.CurrentExp -= p.ExpToNext
	p.Level++
	p.ExpToNext += p.Level + 1
}
