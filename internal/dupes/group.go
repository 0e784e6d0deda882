package dupes

// entry is one group of members sharing a key.
type entry[K comparable] struct {
	key     K
	members []Member
}

// groups buckets members by key and remembers the order in which keys first appeared.
type groups[K comparable] struct {
	order []K
	byKey map[K][]Member
}

func newGroups[K comparable]() *groups[K] {
	return &groups[K]{byKey: make(map[K][]Member)}
}

func (g *groups[K]) add(key K, m Member) {
	if _, ok := g.byKey[key]; !ok {
		g.order = append(g.order, key)
	}

	g.byKey[key] = append(g.byKey[key], m)
}

// multiples returns the groups with at least two members, in first-seen key order.
func (g *groups[K]) multiples() []entry[K] {
	out := make([]entry[K], 0, len(g.order))

	for _, key := range g.order {
		if members := g.byKey[key]; len(members) > 1 {
			out = append(out, entry[K]{key: key, members: members})
		}
	}

	return out
}

// flatten concatenates the members of all entries, preserving order.
func flatten[K comparable](entries []entry[K]) []Member {
	n := 0
	for _, e := range entries {
		n += len(e.members)
	}

	out := make([]Member, 0, n)
	for _, e := range entries {
		out = append(out, e.members...)
	}

	return out
}
