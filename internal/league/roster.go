package league

// Roster resolves player names to positions in a player slice.
// Matches reference players by name, so every name join goes through here.
type Roster struct {
	index map[string]int
}

// NewRoster indexes players by name.
func NewRoster(players []Player) Roster {
	index := make(map[string]int, len(players))
	for i, p := range players {
		index[p.Name] = i
	}
	return Roster{index: index}
}

// Lookup returns the position of the named player.
func (r Roster) Lookup(name string) (int, bool) {
	i, ok := r.index[name]
	return i, ok
}

// Resolve looks up all four slots of a match. An unknown name is a validation error.
func (r Roster) Resolve(m Match) ([4]int, error) {
	var out [4]int
	fields := [4]string{"playerA1", "playerA2", "playerB1", "playerB2"}
	for i, name := range m.Slots() {
		idx, ok := r.Lookup(name)
		if !ok {
			return out, Invalid(fields[i], "unknown player %q", name)
		}
		out[i] = idx
	}
	return out, nil
}
