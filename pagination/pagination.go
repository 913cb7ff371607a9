// Package pagination turns a page request and a row count into page metadata
// and the compact page-number strip shown under listings.
package pagination

import "strconv"

const (
	DefaultSize       = 9
	DefaultReviewSize = 10
)

// Paginator describes one page of a listing. Next and Previous are nil at the edges.
type Paginator struct {
	Page     int   `json:"page"`
	Size     int   `json:"size"`
	Total    int64 `json:"total"`
	Pages    int   `json:"pages"`
	Next     *int  `json:"next_page"`
	Previous *int  `json:"previous_page"`
}

// PageItem is one entry of the page strip: a page number or an ellipsis.
type PageItem struct {
	Number   int
	Ellipsis bool
}

// Clamp raises page to 1 and size to minSize.
func Clamp(page, size, minSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < minSize {
		size = minSize
	}
	return page, size
}

// Parse reads page and size query values, falling back to 1 and minSize on garbage.
func Parse(page, size string, minSize int) (int, int) {
	p, err := strconv.Atoi(page)
	if err != nil {
		p = 1
	}
	s, err := strconv.Atoi(size)
	if err != nil {
		s = minSize
	}
	return Clamp(p, s, minSize)
}

// Offset is the number of rows to skip for page and size.
func Offset(page, size int) int {
	return (page - 1) * size
}

// New builds the metadata for one page of total rows. Pages is ceil(total/size);
// Next is nil on the last page and Previous nil on the first.
func New(page, size int, total int64) Paginator {
	p := Paginator{Page: page, Size: size, Total: total}
	if size > 0 {
		p.Pages = int((total + int64(size) - 1) / int64(size))
	}
	if page < p.Pages {
		next := page + 1
		p.Next = &next
	}
	if page > 1 {
		prev := page - 1
		p.Previous = &prev
	}
	return p
}

// HasOtherPages reports whether the listing needs a page strip at all.
func (p Paginator) HasOtherPages() bool {
	return p.Next != nil || p.Previous != nil
}

// PagesRange returns the page strip around the current page: onEachSide pages
// either side of it, onEnds pages at each end, and ellipses over the gaps.
func (p Paginator) PagesRange(onEachSide, onEnds int) []PageItem {
	maxDisplay := onEachSide*2 + onEnds*2 + 1
	if p.Pages <= maxDisplay {
		return numbers(1, p.Pages)
	}

	start := max(p.Page-onEachSide, 1)
	end := min(p.Page+onEachSide, p.Pages)

	var items []PageItem
	if start > onEnds+1 {
		items = append(items, numbers(1, onEnds)...)
		items = append(items, PageItem{Ellipsis: true})
	} else {
		items = append(items, numbers(1, start-1)...)
	}

	items = append(items, numbers(start, end)...)

	if end < p.Pages-onEnds {
		items = append(items, PageItem{Ellipsis: true})
		items = append(items, numbers(p.Pages-onEnds+1, p.Pages)...)
	} else {
		items = append(items, numbers(end+1, p.Pages)...)
	}
	return items
}

func numbers(from, to int) []PageItem {
	var items []PageItem
	for n := from; n <= to; n++ {
		items = append(items, PageItem{Number: n})
	}
	return items
}
