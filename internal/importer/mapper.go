package importer

import (
	"sort"
	"strings"
	"unicode"
)

// autoAcceptConfidence is the similarity above which a booking name is taken
// to mean a league player without an exact match.
const autoAcceptConfidence = 0.8

// suggestion represents a player mapping candidate with confidence score.
type suggestion struct {
	Name       string
	Confidence float64
}

// nameMapper maps Playtomic display names onto league player names.
type nameMapper struct {
	exact      map[string]string
	normalized map[string]string
	names      []string
}

func newNameMapper(names []string) *nameMapper {
	m := &nameMapper{
		exact:      make(map[string]string, len(names)),
		normalized: make(map[string]string, len(names)),
		names:      names,
	}
	for _, name := range names {
		m.exact[name] = name
		m.normalized[normalizeName(name)] = name
	}
	return m
}

// Resolve returns the league player a booking name refers to. Exact and
// normalised matches win; otherwise the single best candidate above
// autoAcceptConfidence is used.
func (m *nameMapper) Resolve(name string) (string, bool) {
	if player, ok := m.exact[strings.TrimSpace(name)]; ok {
		return player, true
	}
	if player, ok := m.normalized[normalizeName(name)]; ok {
		return player, true
	}
	suggestions := m.suggest(name)
	if len(suggestions) == 0 || suggestions[0].Confidence <= autoAcceptConfidence {
		return "", false
	}
	if len(suggestions) > 1 && suggestions[1].Confidence == suggestions[0].Confidence {
		return "", false
	}
	return suggestions[0].Name, true
}

// suggest ranks league players by similarity to name, best first.
func (m *nameMapper) suggest(name string) []suggestion {
	var suggestions []suggestion
	target := normalizeName(name)
	for _, player := range m.names {
		score := calculateSimilarity(target, normalizeName(player))
		if score > 0.3 {
			suggestions = append(suggestions, suggestion{Name: player, Confidence: score})
		}
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	return suggestions
}

// calculateSimilarity averages whole-string and token similarity of two normalised names.
func calculateSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return (stringSimilarity(a, b) + tokenSimilarity(a, b)) / 2
}

// normalizeName lowercases, strips everything but letters and spaces, and collapses whitespace.
func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	var result strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			result.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(result.String()), " ")
}

// stringSimilarity is one minus the normalised edit distance.
func stringSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}
	r1, r2 := []rune(s1), []rune(s2)
	maxLen := max(len(r1), len(r2))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshteinDistance(r1, r2))/float64(maxLen)
}

// tokenSimilarity is the share of tokens that have a close counterpart in the other name.
func tokenSimilarity(s1, s2 string) float64 {
	tokens1 := strings.Fields(s1)
	tokens2 := strings.Fields(s2)
	if len(tokens1) == 0 || len(tokens2) == 0 {
		return 0.0
	}

	var matchCount int
	for _, token1 := range tokens1 {
		for _, token2 := range tokens2 {
			if stringSimilarity(token1, token2) > 0.8 {
				matchCount++
				break
			}
		}
	}
	return float64(matchCount) / float64(max(len(tokens1), len(tokens2)))
}

func levenshteinDistance(s1, s2 []rune) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(s2)]
}
