package catalog

import (
	"sort"
	"time"

	"smartCatalog/domain"
)

// Index is an immutable catalog snapshot. It is built once and only read afterwards,
// so it can be shared across concurrent requests without locking.
type Index struct {
	version    string
	builtAt    time.Time
	candidates []domain.ProductCandidate
	byID       map[string]int
}

// NewIndex copies candidates and sorts them by id.
// Later candidates with a duplicate id replace earlier ones.
func NewIndex(version string, candidates []domain.ProductCandidate) *Index {
	dedup := make(map[string]domain.ProductCandidate, len(candidates))
	for _, c := range candidates {
		if c.ID == "" {
			continue
		}
		dedup[c.ID] = domain.NewProductCandidate(c)
	}

	list := make([]domain.ProductCandidate, 0, len(dedup))
	for _, c := range dedup {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	idx := &Index{
		version:    version,
		builtAt:    time.Now().UTC(),
		candidates: list,
		byID:       make(map[string]int, len(list)),
	}
	for i, c := range list {
		idx.byID[c.ID] = i
	}

	return idx
}

// Candidates returns the snapshot in id order. Callers must not modify the slice.
func (i *Index) Candidates() []domain.ProductCandidate {
	return i.candidates
}

func (i *Index) Get(id string) (domain.ProductCandidate, bool) {
	pos, ok := i.byID[id]
	if !ok {
		return domain.ProductCandidate{}, false
	}
	return i.candidates[pos], true
}

func (i *Index) Len() int {
	return len(i.candidates)
}

func (i *Index) Version() string {
	return i.version
}

func (i *Index) BuiltAt() time.Time {
	return i.builtAt
}

// Prevalence counts candidates whose declared feature text matches token.
func (i *Index) Prevalence(token string) int {
	n := 0
	for _, c := range i.candidates {
		if c.Matches(token) {
			n++
		}
	}
	return n
}
