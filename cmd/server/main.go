package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/drawdash/drawdash-backend/internal/config"
	"github.com/drawdash/drawdash-backend/internal/game"
	"github.com/drawdash/drawdash-backend/internal/server"
	"github.com/drawdash/drawdash-backend/internal/wordstore"
)

const releaseVersion = "0.1.0"

func main() {
	_ = godotenv.Load()
	cfg := &config.Config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}

func newCmd(cfg *config.Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("DRAWDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "drawdash-server",
		Short:         "Turn-based drawing and guessing game server.",
		Args:          cobra.ExactArgs(0),
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.StringVarP(&cfg.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: DRAWDASH_BIND)")
	fs.IntVarP(&cfg.Port, "port", "p", 8080, "port to listen on (env: DRAWDASH_PORT)")
	fs.IntVar(&cfg.MinPlayers, "min-players", 2, "players required before a game can start (env: DRAWDASH_MIN_PLAYERS)")
	fs.IntVar(&cfg.CountdownSeconds, "countdown-seconds", 20, "pre-game countdown length in seconds (env: DRAWDASH_COUNTDOWN_SECONDS)")
	fs.DurationVar(&cfg.RoundDuration, "round-duration", 75*time.Second, "length of a drawing round (env: DRAWDASH_ROUND_DURATION)")
	fs.DurationVar(&cfg.SessionDuration, "session-duration", 3*time.Minute, "total length of a game session (env: DRAWDASH_SESSION_DURATION)")
	fs.DurationVar(&cfg.Intermission, "intermission", 5*time.Second, "pause between rounds (env: DRAWDASH_INTERMISSION)")
	fs.DurationVar(&cfg.ScoreResetDelay, "score-reset-delay", 10*time.Second, "delay before scores clear after a game ends (env: DRAWDASH_SCORE_RESET_DELAY)")
	fs.BoolVar(&cfg.CancelCountdownBelowMin, "cancel-countdown-below-min", true, "abort the countdown if players drop below the minimum (env: DRAWDASH_CANCEL_COUNTDOWN_BELOW_MIN)")
	fs.StringVar(&cfg.WordsFile, "words-file", "", "CSV file to load the word list from (env: DRAWDASH_WORDS_FILE)")
	fs.StringVar(&cfg.DatabaseURL, "database-url", "", "postgres connection string for the word list (env: DRAWDASH_DATABASE_URL)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("drawdash-server v{{.Version}}\n")

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	words, err := loadWords(ctx, cfg)
	if err != nil {
		return err
	}

	pool := game.NewPool(words, rand.New(rand.NewSource(time.Now().UnixNano())))
	hub := server.NewHub()
	session := game.NewSession(cfg.Game(), hub, pool)

	return server.New(cfg, hub, session).ListenAndServe()
}

// loadWords resolves the word list source: the database when configured,
// then a CSV file, then the built-in list.
func loadWords(ctx context.Context, cfg *config.Config) ([]string, error) {
	switch {
	case cfg.DatabaseURL != "":
		words, err := wordstore.LoadPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Printf("[loadWords] loaded %d words from database", len(words))
		return words, nil
	case cfg.WordsFile != "":
		words, err := wordstore.LoadCSV(cfg.WordsFile)
		if err != nil {
			return nil, err
		}
		log.Printf("[loadWords] loaded %d words from %s", len(words), cfg.WordsFile)
		return words, nil
	default:
		log.Printf("[loadWords] using built-in word list")
		return nil, nil
	}
}
