package league

import "strings"

const partnershipSeparator = "-"

// keyEscaper escapes the separator inside names so keys stay unambiguous:
// {Bob, Jean-Luc} and {Bob-Jean, Luc} must not share a key.
var keyEscaper = strings.NewReplacer(`\`, `\\`, partnershipSeparator, `\`+partnershipSeparator)

// Pair is an unordered pair of teammates, stored with the names sorted.
type Pair struct {
	First  string
	Second string
}

// NewPair orders two names so that {a,b} and {b,a} compare equal.
func NewPair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{First: a, Second: b}
}

// Key is the partnership id: the sorted names joined with "-". Hyphens and
// backslashes inside a name are backslash-escaped.
func (p Pair) Key() string {
	return keyEscaper.Replace(p.First) + partnershipSeparator + keyEscaper.Replace(p.Second)
}

// PartnershipKey returns the canonical key of an unordered pair of players.
func PartnershipKey(a, b string) string {
	return NewPair(a, b).Key()
}
