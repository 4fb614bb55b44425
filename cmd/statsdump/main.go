package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"mathwizard/game"
	"mathwizard/store"
)

func main() {
	dbPath := flag.String("db", "mathwizard.db", "SQLite file written by the game")
	limit := flag.Int("limit", 10, "number of recent sessions to list")
	all := flag.Bool("all", false, "grade every stored attempt instead of the latest session")
	fast := flag.Duration("fast", game.DefaultConfig().FastAnswer, "mean answer time that counts as fast")
	flag.Parse()

	db, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	best, err := db.HighScore()
	if err != nil {
		log.Printf("Warning: could not read high score: %v", err)
	}
	fmt.Printf("High score: %d\n\n", best)

	sessions, err := db.Sessions(*limit)
	if err != nil {
		log.Fatalf("Failed to list sessions: %v", err)
	}
	printSessions(os.Stdout, sessions)

	var attempts []game.Attempt
	title := "Latest session"
	if *all {
		title = "All sessions"
		attempts, err = db.AllAttempts()
	} else {
		var latest *store.SessionRow
		latest, err = db.LatestSession()
		if latest != nil {
			attempts = latest.Attempts
		}
	}
	if err != nil {
		log.Fatalf("Failed to load attempts: %v", err)
	}

	fmt.Printf("\n%s: %d attempts\n", title, len(attempts))
	printGrid(os.Stdout, game.BuildFactGrid(attempts, *fast), *fast)
}

func printSessions(w io.Writer, sessions []store.SessionRow) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No games played yet.")
		return
	}
	fmt.Fprintf(w, "%-4s %-19s %-10s %5s %6s %5s %5s\n", "ID", "ENDED", "TABLES", "DIFF", "SCORE", "WAVE", "LEVEL")
	for _, s := range sessions {
		tables := make([]string, len(s.Tables))
		for i, t := range s.Tables {
			tables[i] = fmt.Sprint(t)
		}
		fmt.Fprintf(w, "%-4d %-19s %-10s %5.2f %6d %5d %5d\n",
			s.ID, s.EndedAt.Format("2006-01-02 15:04:05"), strings.Join(tables, ","), s.Difficulty, s.Score, s.Wave, s.Level)
	}
}

var categoryMarks = map[game.FactCategory]string{
	game.FactFast:      "F",
	game.FactSlow:      "s",
	game.FactIncorrect: "X",
	game.FactNone:      ".",
}

// printGrid writes the 10x10 multiplication grid, one mark per fact
func printGrid(w io.Writer, grid game.FactGrid, fast time.Duration) {
	fmt.Fprint(w, "   ")
	for n2 := 1; n2 <= 10; n2++ {
		fmt.Fprintf(w, "%3d", n2)
	}
	fmt.Fprintln(w)

	for n1 := 1; n1 <= 10; n1++ {
		fmt.Fprintf(w, "%3d", n1)
		for n2 := 1; n2 <= 10; n2++ {
			stat, _ := grid.Fact(n1, n2)
			fmt.Fprintf(w, "%3s", categoryMarks[stat.Category])
		}
		fmt.Fprintln(w)
	}

	counts := grid.Counts()
	fmt.Fprintf(w, "\nF fast (mean <= %s): %d   s slow: %d   X missed: %d   . not asked: %d\n",
		fast, counts[game.FactFast], counts[game.FactSlow], counts[game.FactIncorrect], counts[game.FactNone])
}
