// Package admin holds the operator commands working directly against the
// assessment store.
package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/fmpulse/fmpulse/internal/accesscode"
	"github.com/fmpulse/fmpulse/internal/scoring"
	"github.com/fmpulse/fmpulse/internal/store"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "admin",
	Title: "Store administration",
}

func init() {
	// A missing .env file is fine, the environment may be set by the deployment.
	_ = godotenv.Load()
}

func openStore(logger *slog.Logger) (*store.Store, error) {
	url := os.Getenv("FMPULSE_SQLITE_URL")
	if url == "" {
		url = "./fmpulse.sqlite"
	}
	return store.New(url, logger)
}

var Rescore = &cobra.Command{
	Use:     "rescore [code]",
	GroupID: "admin",
	Short:   "Re-run scoring for a submission",
	Long:    `Re-runs the maturity scoring for a stored submission and updates its record.`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		ctx := context.Background()
		code := accesscode.Normalize(args[0])

		db, err := openStore(logger)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "open store: %v\n", err)
			return
		}
		defer func() {
			_ = db.Close()
		}()

		answers, err := db.Answers(ctx, code)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "read answers: %v\n", err)
			return
		}

		scorer := scoring.New(scoring.Config{
			APIKey:  os.Getenv("FMPULSE_OPENAI_API_KEY"),
			BaseURL: os.Getenv("FMPULSE_OPENAI_BASE_URL"),
		}, logger)
		outcome, err := scorer.Score(ctx, answers)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "score submission: %v\n", err)
			return
		}

		if err = db.SetOutcome(ctx, code, *outcome); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "store outcome: %v\n", err)
			return
		}
		fmt.Printf("rescored %s: %d (%s)\n", code, outcome.OverallScore, outcome.OverallLevel)
	},
}

var Lookup = &cobra.Command{
	Use:     "lookup [code]",
	GroupID: "admin",
	Short:   "Print the record for an access code",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		db, err := openStore(logger)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "open store: %v\n", err)
			return
		}
		defer func() {
			_ = db.Close()
		}()

		record, err := db.Record(context.Background(), args[0])
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "read record: %v\n", err)
			return
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		_ = encoder.Encode(record)
	},
}

var Mint = &cobra.Command{
	Use:     "mint",
	GroupID: "admin",
	Short:   "Generate an access code",
	Long:    `Generates an access code from the unambiguous alphabet used for report logins.`,
	Run: func(cmd *cobra.Command, args []string) {
		code, err := accesscode.New()
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "generate code: %v\n", err)
			return
		}
		fmt.Println(code)
	},
}
