package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-league/internal/club"
	"github.com/mauv0809/padel-league/internal/config"
	"github.com/mauv0809/padel-league/internal/database"
	"github.com/mauv0809/padel-league/internal/league"
	"github.com/mauv0809/padel-league/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// Seed data mirrors the league's opening evening.
var (
	seedPlayers = []string{"Obi", "Jack", "Marvin", "James", "Dallas", "Dylan", "Nick", "Remi", "Alex"}
	seedMatches = []league.MatchInput{
		{Date: "2025-03-24", PlayerA1: "Marvin", PlayerA2: "Obi", PlayerB1: "James", PlayerB2: "Jack", ScoreA: 2, ScoreB: 6},
		{Date: "2025-03-24", PlayerA1: "Jack", PlayerA2: "Obi", PlayerB1: "Marvin", PlayerB2: "James", ScoreA: 6, ScoreB: 4},
		{Date: "2025-03-24", PlayerA1: "Jack", PlayerA2: "Marvin", PlayerB1: "James", PlayerB2: "Obi", ScoreA: 6, ScoreB: 1},
	}
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "seeder",
	Short: "Seed an empty league database with the opening roster and matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVar(&dbPath, "db", "", "Local database file (defaults to DB_NAME)")
}

func run(ctx context.Context) error {
	log.Info("Starting database seeder...")
	cfg := config.Load()
	if dbPath == "" {
		dbPath = cfg.DBName
	}

	db, teardown, err := database.InitDB(dbPath, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer teardown()

	// No sink: seeding does not announce anything.
	store := club.New(db, metrics.NewService(prometheus.NewRegistry()), nil)
	return seed(ctx, store)
}

func seed(ctx context.Context, store club.ClubStore) error {
	existing, err := store.GetAllMatches(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Warn("League already has matches, skipping seed", "matches", len(existing))
		return nil
	}

	for _, name := range seedPlayers {
		_, err := store.CreatePlayer(ctx, name, true)
		if errors.Is(err, league.ErrDuplicateName) {
			log.Debug("Player already exists", "name", name)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to add player %s: %w", name, err)
		}
	}
	log.Info("Ensured players exist", "count", len(seedPlayers))

	for _, in := range seedMatches {
		m, err := store.CreateMatch(ctx, in)
		if err != nil {
			return fmt.Errorf("failed to record seed match: %w", err)
		}
		log.Info("Seeded match", "id", m.ID, "teamA", m.PlayerA1+" & "+m.PlayerA2, "teamB", m.PlayerB1+" & "+m.PlayerB2, "score", fmt.Sprintf("%d-%d", m.ScoreA, m.ScoreB))
	}
	log.Info("Seeding complete")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("Seeder failed", "error", err)
		os.Exit(1)
	}
}
