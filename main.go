package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"mathwizard/game"
	"mathwizard/live"
	"mathwizard/render"
	"mathwizard/store"
)

func main() {
	tables := flag.String("tables", "3", "comma-separated times tables to practise (1-10)")
	difficulty := flag.Float64("difficulty", 1, "speed and pacing multiplier")
	configPath := flag.String("config", "", "YAML tuning file layered over the defaults")
	dbPath := flag.String("db", "mathwizard.db", "SQLite file for high scores and session history")
	wavesPath := flag.String("waves", "", "JavaScript wave profile script")
	liveAddr := flag.String("live", "", "serve the event feed to spectators on this address, e.g. :8090")
	seed := flag.Int64("seed", 0, "random seed (0 seeds from the clock)")
	profile := flag.Bool("profile", false, "capture CPU profiles when the frame rate drops")
	mute := flag.Bool("mute", false, "start with sound off")
	flag.Parse()

	config := game.DefaultConfig()
	if *configPath != "" {
		c, err := game.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		config = c
	}

	db, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	opts := render.Options{
		Config: config,
		Setup: game.Setup{
			Tables:     parseTables(*tables),
			Difficulty: *difficulty,
		},
		Seed:       *seed,
		HighScores: db,
		Sessions:   db,
		History:    db.AllAttempts,
		Profile:    *profile,
		Mute:       *mute,
	}

	if *wavesPath != "" {
		runner, err := game.LoadScriptRunner(*wavesPath, config.Enemies)
		if err != nil {
			log.Fatalf("Failed to load wave script: %v", err)
		}
		opts.Waves = runner
		log.Printf("Using wave script %s", *wavesPath)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var feed *http.Server
	if *liveAddr != "" {
		hub := live.NewHub()
		feed = live.Serve(ctx, *liveAddr, hub)
		opts.Spectators = hub
	}

	frontend, err := render.NewFrontend(opts)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	ebiten.SetWindowSize(config.ScreenWidth, config.ScreenHeight)
	ebiten.SetWindowTitle("Math Wizard")
	ebiten.SetWindowResizable(true)

	runErr := ebiten.RunGame(frontend)

	stop()
	if feed != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := feed.Shutdown(shutdownCtx); err != nil {
			log.Printf("Live feed shutdown: %v", err)
		}
		cancel()
	}
	if runErr != nil {
		log.Fatal(runErr)
	}
}

// parseTables reads "3,4,7"; anything unparsable is skipped and the game
// falls back to the 3 table when nothing valid remains
func parseTables(s string) []int {
	var out []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			if part != "" {
				log.Printf("Ignoring table %q", part)
			}
			continue
		}
		out = append(out, n)
	}
	return game.NormalizeTables(out)
}
