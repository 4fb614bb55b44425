package game

import (
	"fmt"
	"math/rand"
	"sort"
)

// Operator is an arithmetic operation a question can ask for
type Operator int

const (
	OpMultiply Operator = iota
	OpAdd
	OpSubtract
)

// Symbol returns the operator as printed on screen
func (o Operator) Symbol() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	default:
		return "×"
	}
}

func (o Operator) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	default:
		return "multiply"
	}
}

// Question is one arithmetic prompt. Answer is never negative.
type Question struct {
	Num1   int
	Num2   int
	Op     Operator
	Answer int
}

// Text renders the prompt, e.g. "7 × 8 = ?"
func (q Question) Text() string {
	return fmt.Sprintf("%d %s %d = ?", q.Num1, q.Op.Symbol(), q.Num2)
}

// DefaultTables is used when no valid practice table was selected
var DefaultTables = []int{3}

// NormalizeTables drops tables outside 1..10 and duplicates, falling back to DefaultTables
func NormalizeTables(tables []int) []int {
	seen := make(map[int]bool, len(tables))
	out := make([]int, 0, len(tables))
	for _, t := range tables {
		if t < 1 || t > 10 || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return append([]int(nil), DefaultTables...)
	}
	sort.Ints(out)
	return out
}

// QuestionGenerator draws questions from the practice tables
type QuestionGenerator struct {
	rng    *rand.Rand
	tables []int
}

// NewQuestionGenerator creates a generator over the given tables
func NewQuestionGenerator(rng *rand.Rand, tables []int) *QuestionGenerator {
	return &QuestionGenerator{
		rng:    rng,
		tables: NormalizeTables(tables),
	}
}

// Tables returns the practice tables in use
func (g *QuestionGenerator) Tables() []int {
	return g.tables
}

// Next draws a question. The operator is uniform over ×, + and −.
// Multiplication pairs a practice table with 1..10; addition and subtraction
// use seeds a in 1..10 and b in 0..10-a, with the larger operand first for subtraction.
func (g *QuestionGenerator) Next() Question {
	op := Operator(g.rng.Intn(3))
	switch op {
	case OpMultiply:
		n1 := g.tables[g.rng.Intn(len(g.tables))]
		n2 := g.rng.Intn(10) + 1
		return Question{Num1: n1, Num2: n2, Op: op, Answer: n1 * n2}
	default:
		a := g.rng.Intn(10) + 1
		b := g.rng.Intn(11 - a)
		if op == OpAdd {
			return Question{Num1: a, Num2: b, Op: op, Answer: a + b}
		}
		if b > a {
			a, b = b, a
		}
		return Question{Num1: a, Num2: b, Op: op, Answer: a - b}
	}
}
