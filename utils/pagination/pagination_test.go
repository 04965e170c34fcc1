package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePaginationParams(t *testing.T) {
	tests := []struct {
		name    string
		params  PaginationParams
		wantErr bool
	}{
		{"defaults are valid", PaginationParams{Page: 1, PageSize: 20}, false},
		{"max page size is valid", PaginationParams{Page: 1, PageSize: 100}, false},
		{"page zero rejected", PaginationParams{Page: 0, PageSize: 20}, true},
		{"negative page rejected", PaginationParams{Page: -3, PageSize: 20}, true},
		{"page size zero rejected", PaginationParams{Page: 1, PageSize: 0}, true},
		{"oversized page rejected", PaginationParams{Page: 1, PageSize: 101}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePaginationParams(tt.params)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestWindowSlicesPages(t *testing.T) {
	params := PaginationParams{Page: 2, PageSize: 10}

	start, end := Window(params, 25)

	assert.Equal(t, 10, start)
	assert.Equal(t, 20, end)
}

func TestWindowClampsPartialLastPage(t *testing.T) {
	params := PaginationParams{Page: 3, PageSize: 10}

	start, end := Window(params, 25)

	assert.Equal(t, 20, start)
	assert.Equal(t, 25, end)
}

func TestWindowPastTheEndIsEmpty(t *testing.T) {
	params := PaginationParams{Page: 4, PageSize: 10}

	start, end := Window(params, 25)

	assert.Equal(t, 25, start)
	assert.Equal(t, 25, end)
	assert.Empty(t, make([]int, 25)[start:end])
}

func TestWindowOnEmptyDataset(t *testing.T) {
	params := PaginationParams{Page: 1, PageSize: 20}

	start, end := Window(params, 0)

	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}
