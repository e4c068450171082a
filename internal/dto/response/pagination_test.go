package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginatedResponse(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		perPage   int
		wantPages int
		wantNext  bool
	}{
		{"empty", 0, 10, 0, false},
		{"exact", 20, 10, 2, true},
		{"partial last page", 21, 10, 3, true},
		{"single page", 7, 10, 1, false},
		{"zero per page", 5, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewPaginatedResponse[int](nil, 1, tt.perPage, tt.total)
			assert.Equal(t, tt.wantPages, resp.Pagination.TotalPages)
			assert.Equal(t, tt.wantNext, resp.Pagination.HasNext)
			assert.NotNil(t, resp.Data)
			assert.Equal(t, tt.total, resp.Pagination.Total)
		})
	}
}
