package service

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"inkwell/internal/models"
)

// DefaultPostsPerPage is used when no page size is configured.
const DefaultPostsPerPage = 10

// Page is one slice of a feed plus the navigation data templates need.
type Page struct {
	Items          []*models.Post `json:"items"`
	Number         int            `json:"number"`
	NumPages       int            `json:"num_pages"`
	Count          int64          `json:"count"`
	PerPage        int            `json:"per_page"`
	HasNext        bool           `json:"has_next"`
	HasPrevious    bool           `json:"has_previous"`
	NextNumber     int            `json:"next_page_number,omitempty"`
	PreviousNumber int            `json:"previous_page_number,omitempty"`
	StartIndex     int64          `json:"start_index"`
	EndIndex       int64          `json:"end_index"`
}

// LastPage is a requested page number that always resolves to the final page.
const LastPage = math.MaxInt

// ParsePageNumber reads the ?page= value. Anything that is not an integer means page 1.
// Integers too large in either direction still count as out of range and land on the last page.
func ParsePageNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if errors.Is(err, strconv.ErrRange) {
		return LastPage
	}
	if err != nil {
		return 1
	}
	return n
}

// NumPages returns how many pages count items fill. An empty feed still has one page.
func NumPages(count int64, perPage int) int {
	if count <= 0 || perPage <= 0 {
		return 1
	}
	return int((count + int64(perPage) - 1) / int64(perPage))
}

// NewPage resolves requested against count and fills in the navigation fields.
// Out-of-range numbers, including zero and negatives, land on the last page.
func NewPage(count int64, perPage, requested int) Page {
	if perPage <= 0 {
		perPage = DefaultPostsPerPage
	}
	pages := NumPages(count, perPage)
	number := requested
	if number < 1 || number > pages {
		number = pages
	}

	p := Page{
		Items:       []*models.Post{},
		Number:      number,
		NumPages:    pages,
		Count:       count,
		PerPage:     perPage,
		HasNext:     number < pages,
		HasPrevious: number > 1,
	}
	if p.HasNext {
		p.NextNumber = number + 1
	}
	if p.HasPrevious {
		p.PreviousNumber = number - 1
	}
	if count > 0 {
		p.StartIndex = int64(perPage)*int64(number-1) + 1
		if number == pages {
			p.EndIndex = count
		} else {
			p.EndIndex = int64(number) * int64(perPage)
		}
	}
	return p
}

// Offset is the number of rows before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}
