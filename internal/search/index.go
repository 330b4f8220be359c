// Package search implements weighted fuzzy matching over catalog items.
//
// An Index is built once per catalog snapshot and is read-only afterwards,
// so a single Index may be queried from any goroutine.
package search

import (
	"errors"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"rentgrip/internal/domain"
)

// ErrEmptyQuery is returned when the query text holds no searchable token
var ErrEmptyQuery = errors.New("empty search query")

type field uint8

const (
	fieldName field = iota
	fieldShort
	fieldLong
)

// Weights are the per-field score multipliers, name first
type Weights struct {
	Name  float64
	Short float64
	Long  float64
}

func (w Weights) of(f field) float64 {
	switch f {
	case fieldName:
		return w.Name
	case fieldShort:
		return w.Short
	default:
		return w.Long
	}
}

// Options configures Build
type Options struct {
	Weights   Weights
	Threshold float64 // minimum item score kept by Query
}

// DefaultOptions returns the weights and threshold used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Weights:   Weights{Name: 1.0, Short: 0.7, Long: 0.4},
		Threshold: 0.3,
	}
}

// Match is one search hit. Position indexes the slice given to Build.
type Match struct {
	Position int
	Score    float64
}

type posting struct {
	pos   int
	field field
}

// Index is an inverted index over folded item tokens
type Index struct {
	opts     Options
	size     int
	vocab    []string         // sorted
	tokenIDs map[string]int   // token -> index into vocab
	postings [][]posting      // by token id; one entry per item, best field only
	grams    map[string][]int // trigram -> token ids
	lens     []int            // rune length by token id
	byLen    map[int][]int    // rune length -> token ids
	byFirst  map[rune][]int   // first rune -> token ids
}

// Build indexes items in order
func Build(items []domain.Item, opts Options) *Index {
	// token -> item position -> best field
	raw := make(map[string]map[int]field)
	add := func(pos int, f field, text string) {
		for _, tok := range Tokenize(text) {
			byItem, ok := raw[tok]
			if !ok {
				byItem = make(map[int]field)
				raw[tok] = byItem
			}
			if prev, seen := byItem[pos]; !seen || f < prev {
				byItem[pos] = f
			}
		}
	}

	for pos, item := range items {
		add(pos, fieldName, item.Name)
		add(pos, fieldShort, item.ShortDescription)
		add(pos, fieldLong, item.Description)
		add(pos, fieldLong, item.Brand)
		add(pos, fieldLong, item.Category.Name)
		add(pos, fieldLong, item.Category.Subcategory)
		add(pos, fieldLong, item.Category.Leaf)
	}

	ix := &Index{
		opts:     opts,
		size:     len(items),
		vocab:    make([]string, 0, len(raw)),
		tokenIDs: make(map[string]int, len(raw)),
		grams:    make(map[string][]int),
		byLen:    make(map[int][]int),
		byFirst:  make(map[rune][]int),
	}
	for tok := range raw {
		ix.vocab = append(ix.vocab, tok)
	}
	sort.Strings(ix.vocab)

	ix.postings = make([][]posting, len(ix.vocab))
	ix.lens = make([]int, len(ix.vocab))
	for id, tok := range ix.vocab {
		ix.tokenIDs[tok] = id
		n := utf8.RuneCountInString(tok)
		ix.lens[id] = n
		ix.byLen[n] = append(ix.byLen[n], id)
		first, _ := utf8.DecodeRuneInString(tok)
		ix.byFirst[first] = append(ix.byFirst[first], id)
		for _, g := range trigrams(tok) {
			ix.grams[g] = append(ix.grams[g], id)
		}
		ps := make([]posting, 0, len(raw[tok]))
		for pos, f := range raw[tok] {
			ps = append(ps, posting{pos: pos, field: f})
		}
		slices.SortFunc(ps, func(a, b posting) int { return a.pos - b.pos })
		ix.postings[id] = ps
	}
	return ix
}

// Len returns the number of indexed items
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return ix.size
}

// Query returns items scoring at least the threshold, best first, ties in
// catalog order. Each query token contributes the best weighted similarity it
// reaches in an item; the item score is the mean over query tokens.
func (ix *Index) Query(text string) ([]Match, error) {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil, ErrEmptyQuery
	}
	if ix == nil || ix.size == 0 {
		return nil, nil
	}

	totals := make(map[int]float64)
	for _, q := range tokens {
		best := make(map[int]float64)
		for id, sim := range ix.candidates(q) {
			for _, p := range ix.postings[id] {
				if s := sim * ix.opts.Weights.of(p.field); s > best[p.pos] {
					best[p.pos] = s
				}
			}
		}
		for pos, s := range best {
			totals[pos] += s
		}
	}

	matches := make([]Match, 0, len(totals))
	n := float64(len(tokens))
	for pos, total := range totals {
		if score := total / n; score >= ix.opts.Threshold {
			matches = append(matches, Match{Position: pos, Score: score})
		}
	}
	slices.SortFunc(matches, func(a, b Match) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return a.Position - b.Position
		}
	})
	return matches, nil
}

// candidates returns vocabulary token ids that match q with their similarity
func (ix *Index) candidates(q string) map[int]float64 {
	out := make(map[int]float64)
	seen := make(map[int]struct{})
	consider := func(id int) {
		if _, done := seen[id]; done {
			return
		}
		seen[id] = struct{}{}
		if sim := similarity(q, ix.vocab[id]); sim > 0 {
			out[id] = sim
		}
	}

	// prefix range of the sorted vocabulary, exact match included
	for id := sort.SearchStrings(ix.vocab, q); id < len(ix.vocab) && strings.HasPrefix(ix.vocab[id], q); id++ {
		consider(id)
	}

	// tokens sharing at least one trigram
	for _, g := range trigrams(q) {
		for _, id := range ix.grams[g] {
			consider(id)
		}
	}

	// typos: a substitution inside a short token can break every trigram,
	// so try every token within the edit budget's length window
	ql := utf8.RuneCountInString(q)
	if budget := maxEdits(ql); budget > 0 {
		for n := ql - budget; n <= ql+budget; n++ {
			for _, id := range ix.byLen[n] {
				consider(id)
			}
		}
	}

	// abbreviations: subsequences sharing the first rune
	if ql >= 3 {
		first, _ := utf8.DecodeRuneInString(q)
		for _, id := range ix.byFirst[first] {
			if ix.lens[id] >= ql {
				consider(id)
			}
		}
	}
	return out
}
