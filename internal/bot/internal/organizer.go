package internal

import (
	"sort"

	"shanghai/internal/domain"
)

// maxSearchNodes bounds the contract search so a bot never stalls a match loop.
const maxSearchNodes = 20000

// Plan is one way to lay down a contract from a hand.
type Plan struct {
	Groups [][]domain.Card
	Cards  int
	Jokers int
}

// Better reports whether p lays down more cards than q, using fewer jokers to
// break ties.
func (p Plan) Better(q Plan) bool {
	if p.Cards != q.Cards {
		return p.Cards > q.Cards
	}
	return p.Jokers < q.Jokers
}

type runWindow struct {
	suit   domain.Suit
	lo, hi int
}

type organizer struct {
	hand    []domain.Card
	byRank  map[domain.Rank][]domain.Card
	bySuit  map[domain.Suit]map[int][]domain.Card
	jokers  []domain.Card
	ranks   []domain.Rank
	windows []runWindow
	shape   domain.ContractShape
	keep    int

	used   map[string]bool
	groups [][]domain.Card
	best   Plan
	found  bool
	nodes  int
}

// FindContract searches hand for disjoint melds matching shape. At least keep
// cards stay in hand so the player can still discard. Jokers are only spent
// where naturals are missing.
func FindContract(hand []domain.Card, shape domain.ContractShape, keep int) (Plan, bool) {
	if shape.Books == 0 && shape.Runs == 0 {
		return Plan{}, false
	}
	o := newOrganizer(hand, keep)
	o.shape = shape
	o.search(shape.Books, shape.Runs, 0, 0, len(o.jokers))
	return o.best, o.found
}

func newOrganizer(hand []domain.Card, keep int) *organizer {
	o := &organizer{
		hand:   hand,
		byRank: make(map[domain.Rank][]domain.Card),
		bySuit: make(map[domain.Suit]map[int][]domain.Card),
		keep:   keep,
		used:   make(map[string]bool),
	}
	for _, c := range hand {
		if c.IsJoker() {
			o.jokers = append(o.jokers, c)
			continue
		}
		o.byRank[c.Rank] = append(o.byRank[c.Rank], c)
		if o.bySuit[c.Suit] == nil {
			o.bySuit[c.Suit] = make(map[int][]domain.Card)
		}
		v := domain.RankValue(c.Rank)
		o.bySuit[c.Suit][v] = append(o.bySuit[c.Suit][v], c)
	}

	for r := range o.byRank {
		o.ranks = append(o.ranks, r)
	}
	// Larger groups first so the search finds cheap books early.
	sort.Slice(o.ranks, func(i, j int) bool {
		ni, nj := len(o.byRank[o.ranks[i]]), len(o.byRank[o.ranks[j]])
		if ni != nj {
			return ni > nj
		}
		return domain.RankValue(o.ranks[i]) > domain.RankValue(o.ranks[j])
	})

	for _, s := range domain.Suits {
		values := o.bySuit[s]
		if len(values) < 2 {
			continue
		}
		for lo := 1; lo <= 13; lo++ {
			for hi := lo + domain.MinRunSize - 1; hi <= 13; hi++ {
				length := hi - lo + 1
				// Pad with jokers only to reach the minimum length.
				if length > domain.MinRunSize && (len(values[lo]) == 0 || len(values[hi]) == 0) {
					continue
				}
				present := 0
				for v := lo; v <= hi; v++ {
					if len(values[v]) > 0 {
						present++
					}
				}
				if present < 2 || length-present > len(o.jokers) {
					continue
				}
				o.windows = append(o.windows, runWindow{suit: s, lo: lo, hi: hi})
			}
		}
	}
	sort.SliceStable(o.windows, func(i, j int) bool {
		return o.windows[i].hi-o.windows[i].lo > o.windows[j].hi-o.windows[j].lo
	})
	return o
}

func (o *organizer) search(books, runs, fromRank, fromWindow, jokers int) {
	o.nodes++
	if o.nodes > maxSearchNodes {
		return
	}
	if books == 0 && runs == 0 {
		o.record(jokers)
		return
	}

	if books > 0 {
		for i := fromRank; i < len(o.ranks); i++ {
			naturals := o.available(o.byRank[o.ranks[i]])
			for _, variant := range bookVariants(naturals, jokers) {
				need := domain.MinBookSize - len(variant)
				if need < 0 {
					need = 0
				}
				group := append(append([]domain.Card{}, variant...), o.takeJokers(need)...)
				o.push(group)
				o.search(books-1, runs, i+1, fromWindow, jokers-need)
				o.pop()
			}
		}
		return
	}

	for i := fromWindow; i < len(o.windows); i++ {
		w := o.windows[i]
		var naturals []domain.Card
		for v := w.lo; v <= w.hi; v++ {
			if c, ok := o.first(o.bySuit[w.suit][v]); ok {
				naturals = append(naturals, c)
			}
		}
		need := w.hi - w.lo + 1 - len(naturals)
		if len(naturals) < 2 || need > jokers {
			continue
		}
		group := append(naturals, o.takeJokers(need)...)
		o.push(group)
		// The same window may match again with a second copy of its cards.
		o.search(0, runs-1, fromRank, i, jokers-need)
		o.pop()
	}
}

// bookVariants returns the natural subsets worth trying for one rank: all of
// them, and each one-card-short subset when a joker can cover the gap.
func bookVariants(naturals []domain.Card, jokers int) [][]domain.Card {
	if len(naturals) == 0 || len(naturals)+jokers < domain.MinBookSize {
		return nil
	}
	out := [][]domain.Card{naturals}
	if len(naturals) < 2 {
		return out
	}
	for skip := range naturals {
		if len(naturals)-1+jokers < domain.MinBookSize {
			break
		}
		sub := make([]domain.Card, 0, len(naturals)-1)
		sub = append(sub, naturals[:skip]...)
		sub = append(sub, naturals[skip+1:]...)
		out = append(out, sub)
	}
	return out
}

func (o *organizer) available(cards []domain.Card) []domain.Card {
	var out []domain.Card
	for _, c := range cards {
		if !o.used[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

func (o *organizer) first(cards []domain.Card) (domain.Card, bool) {
	for _, c := range cards {
		if !o.used[c.ID] {
			return c, true
		}
	}
	return domain.Card{}, false
}

func (o *organizer) takeJokers(n int) []domain.Card {
	var out []domain.Card
	for _, j := range o.jokers {
		if len(out) == n {
			break
		}
		if !o.used[j.ID] {
			out = append(out, j)
		}
	}
	return out
}

func (o *organizer) push(group []domain.Card) {
	for _, c := range group {
		o.used[c.ID] = true
	}
	o.groups = append(o.groups, group)
}

func (o *organizer) pop() {
	last := o.groups[len(o.groups)-1]
	for _, c := range last {
		delete(o.used, c.ID)
	}
	o.groups = o.groups[:len(o.groups)-1]
}

func (o *organizer) record(jokersLeft int) {
	cards := len(o.used)
	if len(o.hand)-cards < o.keep {
		return
	}
	if got, ok := domain.CountMelds(o.groups); !ok || got != o.shape {
		return
	}
	plan := Plan{Cards: cards, Jokers: len(o.jokers) - jokersLeft}
	if o.found && !plan.Better(o.best) {
		return
	}
	plan.Groups = make([][]domain.Card, len(o.groups))
	for i, g := range o.groups {
		plan.Groups[i] = append([]domain.Card(nil), g...)
	}
	o.best = plan
	o.found = true
}
