package club

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-league/internal/league"
)

const (
	playerColumns = `id, name, active, elo, games_played, wins, losses, points_for, points_against, point_diff, win_percentage, power_ranking`
	matchColumns  = `id, date, player_a1, player_a2, player_b1, player_b2, score_a, score_b, elo_change_a1, elo_change_a2, elo_change_b1, elo_change_b2, created_at`
)

// loadState reads players and matches in creation order. Partnerships are
// left empty; they are always rebuilt by the aggregator.
func loadState(ctx context.Context, q querier) (league.State, error) {
	players, err := queryPlayers(ctx, q)
	if err != nil {
		return league.State{}, err
	}
	matches, err := queryMatches(ctx, q)
	if err != nil {
		return league.State{}, err
	}
	return league.State{Players: players, Matches: matches}, nil
}

func queryPlayers(ctx context.Context, q querier) ([]league.Player, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+playerColumns+` FROM players ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := []league.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func queryMatches(ctx context.Context, q querier) ([]league.Match, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+matchColumns+` FROM matches ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := []league.Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func queryPartnerships(ctx context.Context, q querier) ([]league.Partnership, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, player1, player2, games_played, wins, losses, points_for, points_against, point_diff, win_percentage, chemistry_rating, elo
		FROM partnerships
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query partnerships: %w", err)
	}
	defer rows.Close()

	partnerships := []league.Partnership{}
	for rows.Next() {
		var p league.Partnership
		if err := rows.Scan(
			&p.ID, &p.Player1, &p.Player2, &p.GamesPlayed, &p.Wins, &p.Losses,
			&p.PointsFor, &p.PointsAgainst, &p.PointDiff, &p.WinPercentage, &p.ChemistryRating, &p.Rating,
		); err != nil {
			return nil, fmt.Errorf("failed to scan partnership row: %w", err)
		}
		partnerships = append(partnerships, p)
	}
	return partnerships, rows.Err()
}

func getPlayer(ctx context.Context, q querier, id int64) (league.Player, error) {
	p, err := scanPlayer(q.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return league.Player{}, fmt.Errorf("player %d: %w", id, league.ErrNotFound)
	}
	return p, err
}

func getMatch(ctx context.Context, q querier, id int64) (league.Match, error) {
	m, err := scanMatch(q.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return league.Match{}, fmt.Errorf("match %d: %w", id, league.ErrNotFound)
	}
	return m, err
}

// scanPlayer is a helper function to scan a single player row.
func scanPlayer(scanner interface{ Scan(...any) error }) (league.Player, error) {
	var p league.Player
	err := scanner.Scan(
		&p.ID, &p.Name, &p.Active, &p.Rating, &p.GamesPlayed, &p.Wins, &p.Losses,
		&p.PointsFor, &p.PointsAgainst, &p.PointDiff, &p.WinPercentage, &p.PowerRanking,
	)
	return p, err
}

// scanMatch is a helper function to scan a single match row.
func scanMatch(scanner interface{ Scan(...any) error }) (league.Match, error) {
	var m league.Match
	var createdAt int64
	err := scanner.Scan(
		&m.ID, &m.Date, &m.PlayerA1, &m.PlayerA2, &m.PlayerB1, &m.PlayerB2, &m.ScoreA, &m.ScoreB,
		&m.EloChangeA1, &m.EloChangeA2, &m.EloChangeB1, &m.EloChangeB2, &createdAt,
	)
	if err != nil {
		return m, err
	}
	m.CreatedAt = time.Unix(createdAt, 0).UTC()
	return m, nil
}

func insertPlayer(ctx context.Context, tx *sql.Tx, p league.Player, createdAt time.Time) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`INSERT INTO players (name, active, elo, created_at) VALUES (?, ?, ?, ?) RETURNING id`,
		p.Name, p.Active, p.Rating, createdAt.Unix(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert player: %w", err)
	}
	return id, nil
}

func updatePlayerRow(ctx context.Context, tx *sql.Tx, p league.Player) error {
	_, err := tx.ExecContext(ctx, `UPDATE players SET name = ?, active = ? WHERE id = ?`, p.Name, p.Active, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update player %d: %w", p.ID, err)
	}
	return nil
}

func deletePlayerRow(ctx context.Context, tx *sql.Tx, id int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}
	return nil
}

func insertMatch(ctx context.Context, tx *sql.Tx, m league.Match) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO matches (date, player_a1, player_a2, player_b1, player_b2, score_a, score_b, elo_change_a1, elo_change_a2, elo_change_b1, elo_change_b2, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`,
		m.Date, m.PlayerA1, m.PlayerA2, m.PlayerB1, m.PlayerB2, m.ScoreA, m.ScoreB,
		m.EloChangeA1, m.EloChangeA2, m.EloChangeB1, m.EloChangeB2, m.CreatedAt.Unix(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert match: %w", err)
	}
	return id, nil
}

func updateMatchRow(ctx context.Context, tx *sql.Tx, m league.Match) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE matches SET
			date = ?, player_a1 = ?, player_a2 = ?, player_b1 = ?, player_b2 = ?, score_a = ?, score_b = ?,
			elo_change_a1 = ?, elo_change_a2 = ?, elo_change_b1 = ?, elo_change_b2 = ?
		WHERE id = ?
	`,
		m.Date, m.PlayerA1, m.PlayerA2, m.PlayerB1, m.PlayerB2, m.ScoreA, m.ScoreB,
		m.EloChangeA1, m.EloChangeA2, m.EloChangeB1, m.EloChangeB2, m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update match %d: %w", m.ID, err)
	}
	return nil
}

func deleteMatchRow(ctx context.Context, tx *sql.Tx, id int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete match %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM imported_matches WHERE match_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete import record for match %d: %w", id, err)
	}
	return nil
}

func externalMatchExists(ctx context.Context, q querier, externalID string) (bool, error) {
	var exists int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM imported_matches WHERE external_id = ?`, externalID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up imported match %s: %w", externalID, err)
	}
	return true, nil
}

func recordImport(ctx context.Context, tx *sql.Tx, externalID string, matchID int64, importedAt time.Time) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO imported_matches (external_id, match_id, imported_at) VALUES (?, ?, ?)`,
		externalID, matchID, importedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to record import of %s: %w", externalID, err)
	}
	return nil
}

// saveDerived writes the recomputed player fields and replaces the partnership table.
func saveDerived(ctx context.Context, tx *sql.Tx, st league.State) error {
	stmt, err := tx.PrepareContext(ctx, `
		UPDATE players SET
			elo = ?, games_played = ?, wins = ?, losses = ?, points_for = ?, points_against = ?,
			point_diff = ?, win_percentage = ?, power_ranking = ?
		WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare player stats update: %w", err)
	}
	defer stmt.Close()

	for _, p := range st.Players {
		if _, err := stmt.ExecContext(ctx,
			p.Rating, p.GamesPlayed, p.Wins, p.Losses, p.PointsFor, p.PointsAgainst,
			p.PointDiff, p.WinPercentage, p.PowerRanking, p.ID,
		); err != nil {
			return fmt.Errorf("failed to save stats for player %d: %w", p.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM partnerships`); err != nil {
		return fmt.Errorf("failed to clear partnerships: %w", err)
	}
	pstmt, err := tx.PrepareContext(ctx, `
		INSERT INTO partnerships (id, player1, player2, games_played, wins, losses, points_for, points_against, point_diff, win_percentage, chemistry_rating, elo)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare partnership insert: %w", err)
	}
	defer pstmt.Close()

	for _, p := range st.Partnerships {
		if _, err := pstmt.ExecContext(ctx,
			p.ID, p.Player1, p.Player2, p.GamesPlayed, p.Wins, p.Losses,
			p.PointsFor, p.PointsAgainst, p.PointDiff, p.WinPercentage, p.ChemistryRating, p.Rating,
		); err != nil {
			return fmt.Errorf("failed to save partnership %s: %w", p.ID, err)
		}
	}
	log.Debug("Saved derived statistics", "players", len(st.Players), "partnerships", len(st.Partnerships))
	return nil
}
