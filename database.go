package main

import (
	"log"
	"strconv"
	"time"
)

// Account is a registered player, independent of any session.
type Account struct {
	ID         int64  `db:"id"`
	Name       string `db:"name"`
	SecretCode string `db:"secret_code"`
}

// MatchResult is one player's line in a finished game's record.
type MatchResult struct {
	ID       int64     `db:"id"`
	GameCode string    `db:"game_code"`
	PlayerID int64     `db:"player_id"`
	Role     string    `db:"role"`
	Team     string    `db:"team"`
	Won      bool      `db:"won"`
	Survived bool      `db:"survived"`
	Actions  int       `db:"actions"`
	PlayedAt time.Time `db:"played_at"`
}

// LeaderboardRow is one line of the all-time standings.
type LeaderboardRow struct {
	Name     string `db:"name"`
	Games    int    `db:"games"`
	Wins     int    `db:"wins"`
	Survived int    `db:"survived"`
	Actions  int    `db:"actions"`
}

func initDB() error {
	schema := `
	PRAGMA journal_mode=WAL;

	CREATE TABLE IF NOT EXISTS player (
		name TEXT UNIQUE NOT NULL,
		secret_code TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS session (
		token INTEGER PRIMARY KEY,
		player_id INTEGER NOT NULL,
		FOREIGN KEY (player_id) REFERENCES player(rowid)
	);
	CREATE TABLE IF NOT EXISTS match_result (
		game_code TEXT NOT NULL,
		player_id INTEGER NOT NULL,
		role TEXT NOT NULL,
		team TEXT NOT NULL,
		won INTEGER NOT NULL DEFAULT 0,
		survived INTEGER NOT NULL DEFAULT 0,
		actions INTEGER NOT NULL DEFAULT 0,
		played_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (player_id) REFERENCES player(rowid),
		UNIQUE(game_code, player_id)
	);
	CREATE INDEX IF NOT EXISTS idx_match_result_player ON match_result(player_id);
	`
	if _, err := db.Exec(schema); err != nil {
		log.Printf("initDB error: %v", err)
		return err
	}
	log.Printf("Database initialized successfully")
	return nil
}

func getAccountByName(name string) (Account, error) {
	var a Account
	err := db.Get(&a, "SELECT rowid as id, name, secret_code FROM player WHERE name = ?", name)
	return a, err
}

// playerName looks up a display name; unknown ids fall back to a numbered
// placeholder rather than an error, since it feeds log lines and events.
func playerName(playerID int64) string {
	var name string
	if err := db.Get(&name, "SELECT name FROM player WHERE rowid = ?", playerID); err != nil {
		return "player#" + strconv.FormatInt(playerID, 10)
	}
	return name
}

// recordMatchResults writes one row per participant of a finished game in a
// single transaction.
func recordMatchResults(g *Game, winner Team) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range g.Players {
		actions := 0
		for _, n := range g.actionTally[p.ID] {
			actions += n
		}
		won := p.team() == winner
		// Neutral wins belong to whoever achieved their objective.
		if winner == TeamNeutral {
			won = p.AchievedObjective
		}
		_, err := tx.Exec(`
			INSERT INTO match_result (game_code, player_id, role, team, won, survived, actions)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(game_code, player_id) DO NOTHING`,
			g.Code, p.ID, string(p.Role), string(p.team()), won, p.Alive, actions)
		if err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	LogDBState("after recording match " + g.Code)
	return nil
}

// getLeaderboard returns the all-time standings ordered by wins.
func getLeaderboard(limit int) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = 25
	}
	var rows []LeaderboardRow
	err := db.Select(&rows, `
		SELECT p.name as name,
			COUNT(*) as games,
			SUM(m.won) as wins,
			SUM(m.survived) as survived,
			SUM(m.actions) as actions
		FROM match_result m
			JOIN player p ON m.player_id = p.rowid
		GROUP BY m.player_id
		ORDER BY wins DESC, games ASC, name ASC
		LIMIT ?`, limit)
	return rows, err
}

func getMatchHistory(playerID int64, limit int) ([]MatchResult, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []MatchResult
	err := db.Select(&rows, `
		SELECT rowid as id, game_code, player_id, role, team, won, survived, actions, played_at
		FROM match_result
		WHERE player_id = ?
		ORDER BY played_at DESC
		LIMIT ?`, playerID, limit)
	return rows, err
}
