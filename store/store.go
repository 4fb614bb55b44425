package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"mathwizard/game"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database holding the high score and finished games
type DB struct {
	conn *sql.DB
}

// SessionRow is a finished game as listed by the stats tools
type SessionRow struct {
	ID         int64
	Tables     []int
	Difficulty float64
	Score      int
	Wave       int
	Level      int
	EndedAt    time.Time
	Attempts   []game.Attempt
}

// Open opens (or creates) the SQLite database
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tables TEXT NOT NULL DEFAULT '',
		difficulty REAL NOT NULL DEFAULT 1,
		score INTEGER NOT NULL DEFAULT 0,
		wave INTEGER NOT NULL DEFAULT 0,
		level INTEGER NOT NULL DEFAULT 1,
		ended_at INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS attempts (
		session_id INTEGER NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		num1 INTEGER NOT NULL,
		num2 INTEGER NOT NULL,
		op INTEGER NOT NULL,
		answer_given TEXT NOT NULL DEFAULT '',
		correct_answer INTEGER NOT NULL,
		time_taken_ms INTEGER NOT NULL,
		correct INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (session_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_attempts_fact ON attempts(op, num1, num2);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("DB migration error: %v", err)
	}
	return err
}

// Get returns a stored value, or "" when the key is missing
func (db *DB) Get(key string) (string, error) {
	var value string
	err := db.conn.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// Set stores a value under key
func (db *DB) Set(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// HighScore returns the best score on record, 0 when none
func (db *DB) HighScore() (int, error) {
	raw, err := db.Get(game.HighScoreKey)
	if err != nil || raw == "" {
		return 0, err
	}
	score, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("corrupt high score %q: %w", raw, err)
	}
	return score, nil
}

// SaveHighScore overwrites the best score
func (db *DB) SaveHighScore(score int) error {
	return db.Set(game.HighScoreKey, strconv.Itoa(score))
}

// SaveSession records a finished game and its attempts
func (db *DB) SaveSession(rec game.SessionRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO sessions (tables, difficulty, score, wave, level, ended_at) VALUES (?, ?, ?, ?, ?, ?)",
		joinTables(rec.Tables), rec.Difficulty, rec.Score, rec.Wave, rec.Level, rec.EndedAt.UnixMilli(),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO attempts
		(session_id, seq, num1, num2, op, answer_given, correct_answer, time_taken_ms, correct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, a := range rec.Attempts {
		if _, err := stmt.Exec(id, i, a.Num1, a.Num2, int(a.Op), a.AnswerGiven, a.CorrectAnswer, a.TimeTaken.Milliseconds(), a.Correct); err != nil {
			return fmt.Errorf("attempt %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Sessions returns the most recent finished games, newest first, without attempts
func (db *DB) Sessions(limit int) ([]SessionRow, error) {
	rows, err := db.conn.Query(`
		SELECT id, tables, difficulty, score, wave, level, ended_at
		FROM sessions
		ORDER BY id DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []SessionRow
	for rows.Next() {
		var r SessionRow
		var tables string
		var endedAt int64
		if err := rows.Scan(&r.ID, &tables, &r.Difficulty, &r.Score, &r.Wave, &r.Level, &endedAt); err != nil {
			return nil, err
		}
		r.Tables = splitTables(tables)
		r.EndedAt = time.UnixMilli(endedAt)
		result = append(result, r)
	}
	return result, rows.Err()
}

// LatestSession returns the newest finished game with its attempts, or nil when none exist
func (db *DB) LatestSession() (*SessionRow, error) {
	sessions, err := db.Sessions(1)
	if err != nil || len(sessions) == 0 {
		return nil, err
	}
	s := sessions[0]
	s.Attempts, err = db.attempts("WHERE session_id = ?", s.ID)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// AllAttempts returns every attempt ever recorded, oldest first
func (db *DB) AllAttempts() ([]game.Attempt, error) {
	return db.attempts("")
}

func (db *DB) attempts(where string, args ...any) ([]game.Attempt, error) {
	rows, err := db.conn.Query(`
		SELECT num1, num2, op, answer_given, correct_answer, time_taken_ms, correct
		FROM attempts `+where+`
		ORDER BY session_id, seq`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []game.Attempt
	for rows.Next() {
		var a game.Attempt
		var op int
		var ms int64
		if err := rows.Scan(&a.Num1, &a.Num2, &op, &a.AnswerGiven, &a.CorrectAnswer, &ms, &a.Correct); err != nil {
			return nil, err
		}
		a.Op = game.Operator(op)
		a.TimeTaken = time.Duration(ms) * time.Millisecond
		result = append(result, a)
	}
	return result, rows.Err()
}

func joinTables(tables []int) string {
	parts := make([]string, len(tables))
	for i, t := range tables {
		parts[i] = strconv.Itoa(t)
	}
	return strings.Join(parts, ",")
}

func splitTables(s string) []int {
	if s == "" {
		return nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			out = append(out, n)
		}
	}
	return out
}
