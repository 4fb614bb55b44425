package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTables(t *testing.T) {
	assert.Equal(t, []int{3}, NormalizeTables(nil))
	assert.Equal(t, []int{3}, NormalizeTables([]int{0, 11, -2}))
	assert.Equal(t, []int{2, 7}, NormalizeTables([]int{7, 2, 7, 12}))
}

func TestQuestionGeneratorAnswersNeverNegative(t *testing.T) {
	gen := NewQuestionGenerator(testRNG(), []int{6, 9})
	ops := map[Operator]int{}

	for i := 0; i < 3000; i++ {
		q := gen.Next()
		ops[q.Op]++
		assert.GreaterOrEqual(t, q.Answer, 0)

		switch q.Op {
		case OpMultiply:
			assert.Contains(t, []int{6, 9}, q.Num1)
			assert.True(t, q.Num2 >= 1 && q.Num2 <= 10, "num2 %d", q.Num2)
			assert.Equal(t, q.Num1*q.Num2, q.Answer)
		case OpAdd:
			assert.GreaterOrEqual(t, q.Num2, 0)
			assert.LessOrEqual(t, q.Answer, 10)
			assert.Equal(t, q.Num1+q.Num2, q.Answer)
		case OpSubtract:
			assert.GreaterOrEqual(t, q.Num1, q.Num2, "larger operand first")
			assert.Equal(t, q.Num1-q.Num2, q.Answer)
		}
	}

	for _, op := range []Operator{OpMultiply, OpAdd, OpSubtract} {
		assert.InDelta(t, 1000, ops[op], 150, "operator %v", op)
	}
}

func TestQuestionText(t *testing.T) {
	assert.Equal(t, "7 × 8 = ?", Question{Num1: 7, Num2: 8, Op: OpMultiply}.Text())
	assert.Equal(t, "9 - 4 = ?", Question{Num1: 9, Num2: 4, Op: OpSubtract}.Text())
}
