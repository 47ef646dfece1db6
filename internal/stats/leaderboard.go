package stats

import (
	"sort"

	"github.com/mauv0809/padel-league/internal/league"
)

// Leaderboard returns active players ordered by power ranking, then rating, then name.
func Leaderboard(players []league.Player) []league.Player {
	out := make([]league.Player, 0, len(players))
	for _, p := range players {
		if p.Active {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PowerRanking != out[j].PowerRanking {
			return out[i].PowerRanking > out[j].PowerRanking
		}
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// TopPartnerships returns partnerships ordered by chemistry, best first.
func TopPartnerships(partnerships []league.Partnership, limit int) []league.Partnership {
	out := make([]league.Partnership, len(partnerships))
	copy(out, partnerships)
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := parsePercentage(out[i].ChemistryRating), parsePercentage(out[j].ChemistryRating)
		if ci != cj {
			return ci > cj
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
