package config

import (
	"fmt"
	"time"

	"github.com/drawdash/drawdash-backend/internal/game"
)

// Config holds everything tunable from flags or DRAWDASH_* environment
// variables.
type Config struct {
	Bind string
	Port int

	MinPlayers              int
	CountdownSeconds        int
	RoundDuration           time.Duration
	SessionDuration         time.Duration
	Intermission            time.Duration
	ScoreResetDelay         time.Duration
	CancelCountdownBelowMin bool

	WordsFile   string
	DatabaseURL string
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.MinPlayers < 2 {
		return fmt.Errorf("min-players must be at least 2, got %d", c.MinPlayers)
	}
	if c.RoundDuration <= 0 || c.SessionDuration <= 0 {
		return fmt.Errorf("round and session durations must be positive")
	}
	if c.CountdownSeconds < 0 {
		return fmt.Errorf("countdown-seconds must not be negative, got %d", c.CountdownSeconds)
	}
	if c.Intermission < 0 || c.ScoreResetDelay < 0 {
		return fmt.Errorf("intermission and score-reset-delay must not be negative")
	}
	if c.WordsFile != "" && c.DatabaseURL != "" {
		return fmt.Errorf("words-file and database-url are mutually exclusive")
	}
	return nil
}

// Game maps the configuration onto the session state machine's knobs.
func (c *Config) Game() game.Config {
	return game.Config{
		MinPlayers:              c.MinPlayers,
		CountdownSeconds:        c.CountdownSeconds,
		RoundDuration:           c.RoundDuration,
		SessionDuration:         c.SessionDuration,
		Intermission:            c.Intermission,
		ScoreResetDelay:         c.ScoreResetDelay,
		TickInterval:            time.Second,
		CancelCountdownBelowMin: c.CancelCountdownBelowMin,
	}
}
