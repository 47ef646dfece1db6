package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mauv0809/padel-league/internal/league"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(addPlayerCmd)
	rootCmd.AddCommand(removePlayerCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(deleteMatchCmd)
	rootCmd.AddCommand(partnershipsCmd)
	rootCmd.AddCommand(recomputeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(metricsCmd)

	recordCmd.Flags().StringVar(&matchInput.Date, "date", "", "Match date (YYYY-MM-DD)")
	recordCmd.Flags().StringVar(&matchInput.PlayerA1, "a1", "", "First player of team A")
	recordCmd.Flags().StringVar(&matchInput.PlayerA2, "a2", "", "Second player of team A")
	recordCmd.Flags().StringVar(&matchInput.PlayerB1, "b1", "", "First player of team B")
	recordCmd.Flags().StringVar(&matchInput.PlayerB2, "b2", "", "Second player of team B")
	recordCmd.Flags().IntVar(&matchInput.ScoreA, "score-a", 0, "Games won by team A")
	recordCmd.Flags().IntVar(&matchInput.ScoreB, "score-b", 0, "Games won by team B")
	for _, name := range []string{"date", "a1", "a2", "b1", "b2"} {
		_ = recordCmd.MarkFlagRequired(name)
	}

	importCmd.Flags().IntVar(&importDays, "days", 7, "How many days back to look for Playtomic matches")
}

var (
	matchInput league.MatchInput
	importDays int
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil, nil)
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the players of the league",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/players", nil, nil)
	},
}

var addPlayerCmd = &cobra.Command{
	Use:   "add-player [name]",
	Short: "Add a player to the league",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/players", nil, map[string]any{"name": args[0]})
	},
}

var removePlayerCmd = &cobra.Command{
	Use:   "remove-player [id]",
	Short: "Remove a player, or deactivate them if they have played",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodDelete, "/players/"+args[0], nil, nil)
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List recorded matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/matches", nil, nil)
	},
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a match result",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/matches", nil, matchInput)
	},
}

var deleteMatchCmd = &cobra.Command{
	Use:   "delete-match [id]",
	Short: "Delete a match and reverse its rating changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodDelete, "/matches/"+args[0], nil, nil)
	},
}

var partnershipsCmd = &cobra.Command{
	Use:   "partnerships",
	Short: "List partnership statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/partnerships", nil, nil)
	},
}

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Rebuild all derived statistics from the match history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/recompute", nil, nil)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full league state as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/export", nil, nil)
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import recent matches from Playtomic",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/import", url.Values{"days": {strconv.Itoa(importDays)}}, nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil, nil)
	},
}

func performRequest(method, endpoint string, query url.Values, payload any) error {
	if query == nil {
		query = url.Values{}
	}
	if dryRun {
		query.Set("dry_run", "true")
	}
	if verbose {
		query.Set("verbose", "true")
	}
	target := host + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	fmt.Printf("Making %s request to %s\n", method, target)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, target, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
