package pagination

import (
	"reflect"
	"testing"
)

// strip renders items as numbers with 0 standing for an ellipsis.
func strip(items []PageItem) []int {
	out := make([]int, len(items))
	for i, it := range items {
		if !it.Ellipsis {
			out[i] = it.Number
		}
	}
	return out
}

func TestNew(t *testing.T) {
	tests := []struct {
		name             string
		page, size       int
		total            int64
		pages            int
		hasNext, hasPrev bool
	}{
		{"empty", 1, 9, 0, 0, false, false},
		{"single page", 1, 9, 9, 1, false, false},
		{"first of two", 1, 9, 10, 2, true, false},
		{"last of two", 2, 9, 10, 2, false, true},
		{"middle", 3, 10, 95, 10, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.page, tt.size, tt.total)
			if p.Pages != tt.pages {
				t.Errorf("Pages = %d, want %d", p.Pages, tt.pages)
			}
			if (p.Next != nil) != tt.hasNext {
				t.Errorf("Next = %v, want present=%v", p.Next, tt.hasNext)
			}
			if (p.Previous != nil) != tt.hasPrev {
				t.Errorf("Previous = %v, want present=%v", p.Previous, tt.hasPrev)
			}
			if p.HasOtherPages() != (tt.hasNext || tt.hasPrev) {
				t.Errorf("HasOtherPages() = %v", p.HasOtherPages())
			}
		})
	}
}

func TestParseClamps(t *testing.T) {
	tests := []struct {
		page, size         string
		wantPage, wantSize int
	}{
		{"", "", 1, 9},
		{"0", "3", 1, 9},
		{"-4", "20", 1, 20},
		{"abc", "x", 1, 9},
		{"5", "12", 5, 12},
	}
	for _, tt := range tests {
		page, size := Parse(tt.page, tt.size, DefaultSize)
		if page != tt.wantPage || size != tt.wantSize {
			t.Errorf("Parse(%q, %q) = %d, %d; want %d, %d", tt.page, tt.size, page, size, tt.wantPage, tt.wantSize)
		}
	}
	if got := Offset(3, 9); got != 18 {
		t.Errorf("Offset(3, 9) = %d", got)
	}
}

func TestPagesRange(t *testing.T) {
	tests := []struct {
		name        string
		page, pages int
		want        []int
	}{
		{"fits", 3, 5, []int{1, 2, 3, 4, 5}},
		{"middle", 10, 20, []int{1, 2, 0, 8, 9, 10, 11, 12, 0, 19, 20}},
		{"near start", 2, 20, []int{1, 2, 3, 4, 0, 19, 20}},
		{"near end", 19, 20, []int{1, 2, 0, 17, 18, 19, 20}},
		{"gap of one", 5, 20, []int{1, 2, 3, 4, 5, 6, 7, 0, 19, 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.page, 1, int64(tt.pages))
			got := strip(p.PagesRange(2, 2))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PagesRange() = %v, want %v", got, tt.want)
			}
		})
	}
}
