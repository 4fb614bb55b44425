package game

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/dop251/goja"
)

// WaveContext is passed to wave scripts as input
type WaveContext struct {
	Wave       int         `json:"wave"`
	Difficulty float64     `json:"difficulty"`
	Kinds      []EnemyKind `json:"kinds"` // enemy kinds the game knows
}

// WaveDecision is returned from wave scripts
type WaveDecision struct {
	Kinds   []KindWeight `json:"kinds"`
	Enemies int          `json:"enemies"`
	BreakMs float64      `json:"breakMs"`
	GapMs   float64      `json:"gapMs"`
}

// ScriptRunner executes JavaScript wave profiles using goja.
// The script must define `function profile(ctx)` returning a WaveDecision-shaped object.
type ScriptRunner struct {
	mu      sync.Mutex
	name    string
	program *goja.Program
	known   map[EnemyKind]bool
	kinds   []EnemyKind
}

// NewScriptRunner compiles and validates a wave script
func NewScriptRunner(name, code string, enemies map[EnemyKind]EnemyKindConfig) (*ScriptRunner, error) {
	program, err := goja.Compile(name, code, false)
	if err != nil {
		return nil, fmt.Errorf("script parse error: %w", err)
	}

	r := &ScriptRunner{
		name:    name,
		program: program,
		known:   make(map[EnemyKind]bool, len(enemies)),
	}
	for kind := range enemies {
		r.known[kind] = true
		r.kinds = append(r.kinds, kind)
	}
	sort.Slice(r.kinds, func(i, j int) bool { return r.kinds[i] < r.kinds[j] })

	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadScriptRunner reads a wave script from disk
func LoadScriptRunner(path string, enemies map[EnemyKind]EnemyKindConfig) (*ScriptRunner, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read wave script: %w", err)
	}
	return NewScriptRunner(path, string(code), enemies)
}

func (r *ScriptRunner) validate() error {
	vm := goja.New()
	if _, err := vm.RunProgram(r.program); err != nil {
		return fmt.Errorf("script execution failed: %w", err)
	}
	fn := vm.Get("profile")
	if fn == nil || fn == goja.Undefined() {
		return fmt.Errorf("script must define a 'profile' function")
	}
	if _, ok := goja.AssertFunction(fn); !ok {
		return fmt.Errorf("'profile' must be a function")
	}
	return nil
}

// Decide runs the script for one wave
func (r *ScriptRunner) Decide(wctx WaveContext, rng *rand.Rand) (WaveDecision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Create a new runtime for each execution (isolation)
	vm := goja.New()
	if rng != nil {
		vm.SetRandSource(rng.Float64)
	}

	ctxJSON, err := json.Marshal(wctx)
	if err != nil {
		return WaveDecision{}, fmt.Errorf("failed to serialize context: %w", err)
	}
	ctxObj, err := vm.RunString(fmt.Sprintf("(%s)", string(ctxJSON)))
	if err != nil {
		return WaveDecision{}, fmt.Errorf("failed to parse context: %w", err)
	}

	if _, err := vm.RunProgram(r.program); err != nil {
		return WaveDecision{}, fmt.Errorf("script execution failed: %w", err)
	}
	profileFunc, ok := goja.AssertFunction(vm.Get("profile"))
	if !ok {
		return WaveDecision{}, fmt.Errorf("script must define a 'profile' function")
	}

	result, err := profileFunc(goja.Undefined(), ctxObj)
	if err != nil {
		return WaveDecision{}, fmt.Errorf("profile function failed: %w", err)
	}

	resultJSON, err := json.Marshal(result.Export())
	if err != nil {
		return WaveDecision{}, fmt.Errorf("failed to serialize result: %w", err)
	}
	var decision WaveDecision
	if err := json.Unmarshal(resultJSON, &decision); err != nil {
		return WaveDecision{}, fmt.Errorf("failed to parse script result: %w (result: %s)", err, string(resultJSON))
	}
	return decision, nil
}

// Profile implements WaveProfiler
func (r *ScriptRunner) Profile(wave int, difficulty float64, rng *rand.Rand) (WaveProfile, error) {
	decision, err := r.Decide(WaveContext{Wave: wave, Difficulty: difficulty, Kinds: r.kinds}, rng)
	if err != nil {
		return WaveProfile{}, err
	}

	entries := make([]WeightedEntry[EnemyKind], 0, len(decision.Kinds))
	for _, k := range decision.Kinds {
		if !r.known[k.Kind] {
			return WaveProfile{}, fmt.Errorf("%s: wave %d: unknown enemy kind %q", r.name, wave, k.Kind)
		}
		entries = append(entries, WeightedEntry[EnemyKind]{Value: k.Kind, Weight: k.Weight})
	}
	kinds := NewWeighted(entries...)
	if kinds.Len() == 0 {
		return WaveProfile{}, fmt.Errorf("%s: wave %d: no enemy kinds", r.name, wave)
	}
	if decision.Enemies < 1 {
		return WaveProfile{}, fmt.Errorf("%s: wave %d: enemies must be at least 1", r.name, wave)
	}
	if decision.BreakMs < 0 || decision.GapMs < 0 {
		return WaveProfile{}, fmt.Errorf("%s: wave %d: negative timing", r.name, wave)
	}

	return WaveProfile{
		Number:             wave,
		Kinds:              kinds,
		EnemiesPerWave:     decision.Enemies,
		TimeBetweenWaves:   time.Duration(decision.BreakMs * float64(time.Millisecond)),
		TimeBetweenEnemies: time.Duration(decision.GapMs * float64(time.Millisecond)),
	}, nil
}
