package logic

// PageMove tells the caller which page change a cursor move needs
type PageMove int

const (
	StayOnPage PageMove = iota
	ToNextPage
	ToPrevPage
)

// Navigator moves the cursor over the rows of the current page and spills
// onto the neighbouring page at either edge
type Navigator struct {
	Rows        int // rows on the current page
	CurrentPage int
	TotalPages  int
}

// Move returns the new cursor after moving delta rows from cursor, and the
// page change needed when the move leaves the page. After a page change
// the caller places the cursor on the first row (next) or last row (prev).
func (n Navigator) Move(cursor, delta int) (int, PageMove) {
	if n.Rows <= 0 {
		return 0, StayOnPage
	}
	target := cursor + delta
	switch {
	case target >= n.Rows:
		if n.CurrentPage < n.TotalPages {
			return 0, ToNextPage
		}
		return n.Rows - 1, StayOnPage
	case target < 0:
		if n.CurrentPage > 1 {
			return -1, ToPrevPage
		}
		return 0, StayOnPage
	}
	return target, StayOnPage
}

// Home is the first row
func (n Navigator) Home() int {
	return 0
}

// End is the last row of the page
func (n Navigator) End() int {
	if n.Rows <= 0 {
		return 0
	}
	return n.Rows - 1
}
