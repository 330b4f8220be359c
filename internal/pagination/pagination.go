// Package pagination slices result lists into fixed-size pages.
package pagination

// State is the page size plus the 1-based current page
type State struct {
	PageSize int
	Current  int
}

// NewState returns page 1 of size; non-positive sizes become 1
func NewState(size int) State {
	if size < 1 {
		size = 1
	}
	return State{PageSize: size, Current: 1}
}

// TotalPages is max(1, ceil(count/size))
func TotalPages(count, size int) int {
	if size < 1 {
		size = 1
	}
	if count <= 0 {
		return 1
	}
	return (count + size - 1) / size
}

// Clamp returns s with Current moved into [1, TotalPages(count)]
func (s State) Clamp(count int) State {
	if s.PageSize < 1 {
		s.PageSize = 1
	}
	total := TotalPages(count, s.PageSize)
	switch {
	case s.Current < 1:
		s.Current = 1
	case s.Current > total:
		s.Current = total
	}
	return s
}

// GoTo moves to page n, clamped
func (s State) GoTo(n, count int) State {
	s.Current = n
	return s.Clamp(count)
}

// Next moves one page forward, stopping at the last page
func (s State) Next(count int) State {
	return s.GoTo(s.Current+1, count)
}

// Prev moves one page back, stopping at page 1
func (s State) Prev(count int) State {
	return s.GoTo(s.Current-1, count)
}

// First moves to page 1
func (s State) First(count int) State {
	return s.GoTo(1, count)
}

// Last moves to the final page
func (s State) Last(count int) State {
	return s.GoTo(TotalPages(count, s.PageSize), count)
}

// Page is one slice of results
type Page[T any] struct {
	Items      []T
	Current    int
	TotalPages int
	Total      int // results across all pages
	Start      int // offset of Items[0] in the full list
	End        int // offset one past the last item
}

// Paginate returns the page state s points at, clamping it first
func Paginate[T any](results []T, s State) Page[T] {
	s = s.Clamp(len(results))
	start := (s.Current - 1) * s.PageSize
	end := min(start+s.PageSize, len(results))
	if start > end {
		start = end
	}
	return Page[T]{
		Items:      results[start:end],
		Current:    s.Current,
		TotalPages: TotalPages(len(results), s.PageSize),
		Total:      len(results),
		Start:      start,
		End:        end,
	}
}
