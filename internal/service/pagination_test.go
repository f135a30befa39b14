package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePageNumber(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"":    1,
		"abc": 1,
		"2.0": 1,
		"2":   2,
		" 4 ": 4,
		"-3":  -3,
		"0":   0,

		"99999999999999999999":  LastPage,
		"-99999999999999999999": LastPage,
	}
	for raw, want := range tests {
		assert.Equal(t, want, ParsePageNumber(raw), "raw %q", raw)
	}
}

func TestNewPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		count      int64
		requested  int
		number     int
		numPages   int
		start, end int64
		next, prev bool
	}{
		{name: "first of two", count: 13, requested: 1, number: 1, numPages: 2, start: 1, end: 10, next: true},
		{name: "last of two", count: 13, requested: 2, number: 2, numPages: 2, start: 11, end: 13, prev: true},
		{name: "beyond last", count: 13, requested: 99, number: 2, numPages: 2, start: 11, end: 13, prev: true},
		{name: "zero", count: 13, requested: 0, number: 2, numPages: 2, start: 11, end: 13, prev: true},
		{name: "negative", count: 13, requested: -1, number: 2, numPages: 2, start: 11, end: 13, prev: true},
		{name: "exact fit", count: 20, requested: 2, number: 2, numPages: 2, start: 11, end: 20, prev: true},
		{name: "single page", count: 3, requested: 1, number: 1, numPages: 1, start: 1, end: 3},
		{name: "empty", count: 0, requested: 1, number: 1, numPages: 1},
		{name: "empty beyond", count: 0, requested: 5, number: 1, numPages: 1},
		{name: "overflowing request", count: 13, requested: ParsePageNumber("99999999999999999999"), number: 2, numPages: 2, start: 11, end: 13, prev: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPage(tc.count, 10, tc.requested)
			assert.Equal(t, tc.number, p.Number)
			assert.Equal(t, tc.numPages, p.NumPages)
			assert.Equal(t, tc.start, p.StartIndex)
			assert.Equal(t, tc.end, p.EndIndex)
			assert.Equal(t, tc.next, p.HasNext)
			assert.Equal(t, tc.prev, p.HasPrevious)
			assert.NotNil(t, p.Items)
		})
	}
}

func TestPageNavigationNumbers(t *testing.T) {
	t.Parallel()

	p := NewPage(35, 10, 2)
	assert.Equal(t, 3, p.NextNumber)
	assert.Equal(t, 1, p.PreviousNumber)
	assert.Equal(t, 10, p.Offset())

	assert.Equal(t, DefaultPostsPerPage, NewPage(5, 0, 1).PerPage)
}
