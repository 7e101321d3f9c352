package search

// PageSize is the fixed number of tracks per page across both search paths.
const PageSize = 24

// Page is a resolved pagination window. Pages are 1-indexed.
type Page struct {
	Number int
	Limit  int
	Offset int
}

// NewPage clamps non-positive page numbers to 1 and computes the window.
func NewPage(number int) Page {
	if number < 1 {
		number = 1
	}
	return Page{
		Number: number,
		Limit:  PageSize,
		Offset: (number - 1) * PageSize,
	}
}

// TotalPages returns the number of pages needed for total rows.
func TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	return int((total + PageSize - 1) / PageSize)
}
