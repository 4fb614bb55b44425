package game

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigMergeOverlaysDefaults(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Merge([]byte(`
max_hearts: 5
invulnerable_for: 2s
droplet_speed: 400
enemies:
  ghost:
    hit_points: 3
    speed: 30
`))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxHearts)
	assert.Equal(t, 2*time.Second, cfg.InvulnerableFor)
	assert.Equal(t, 400.0, cfg.DropletSpeed)
	assert.Equal(t, 800, cfg.ScreenWidth, "unset fields keep defaults")
	assert.Equal(t, 3, cfg.Enemies[EnemyGhost].HitPoints)
	assert.Equal(t, 80.0, cfg.Enemies[EnemyShadow].Speed, "other kinds untouched")
	assert.Len(t, cfg.Phases, 3)
}

func TestConfigMergeReplacesPhases(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Merge([]byte(`
phases:
  - kinds:
      - {kind: plant, weight: 1}
    base_enemies: 2
    growth_every: 1
    break_start: 5s
    spawn_gap: 750ms
`))
	require.NoError(t, err)
	require.Len(t, cfg.Phases, 1)

	p, err := PhaseTable(cfg.Phases).Profile(3, 1, testRNG())
	require.NoError(t, err)
	assert.Equal(t, 5, p.EnemiesPerWave)
	assert.Equal(t, 750*time.Millisecond, p.TimeBetweenEnemies)
}

func TestConfigMergeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown kind", "phases:\n  - kinds: [{kind: dragon, weight: 1}]\n"},
		{"empty kinds", "phases:\n  - base_enemies: 2\n"},
		{"zero speed", "enemies:\n  ghost: {hit_points: 1}\n"},
		{"not yaml", "max_hearts: [oops"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			assert.Error(t, cfg.Merge([]byte(tt.yaml)))
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("retarget_delay: 1s\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.RetargetDelay)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigGroundY(t *testing.T) {
	assert.Equal(t, 520.0, DefaultConfig().GroundY())
}
