package domain

// IndexOfCard returns the position of the card with id in cards, or -1.
func IndexOfCard(cards []Card, id string) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// RemoveCardAt returns cards without position i. The input slice is not modified.
func RemoveCardAt(cards []Card, i int) []Card {
	out := make([]Card, 0, len(cards)-1)
	out = append(out, cards[:i]...)
	return append(out, cards[i+1:]...)
}

// RemoveCards returns hand without any card whose id is in ids.
func RemoveCards(hand []Card, ids map[string]bool) []Card {
	out := make([]Card, 0, len(hand))
	for _, c := range hand {
		if !ids[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

// ResolveGroups looks up card ids in hand and returns the matching cards grouped
// as submitted. ok is false if an id is missing from hand or used twice.
func ResolveGroups(hand []Card, groups [][]string) (resolved [][]Card, used map[string]bool, missing string, ok bool) {
	used = make(map[string]bool)
	resolved = make([][]Card, 0, len(groups))
	for _, g := range groups {
		cards := make([]Card, 0, len(g))
		for _, id := range g {
			i := IndexOfCard(hand, id)
			if i < 0 || used[id] {
				return nil, nil, id, false
			}
			used[id] = true
			cards = append(cards, hand[i])
		}
		resolved = append(resolved, cards)
	}
	return resolved, used, "", true
}
