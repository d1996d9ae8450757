package booking

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestMapPQError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "exclusion violation",
			err:  &pq.Error{Code: "23P01", Message: "conflicting key value violates exclusion constraint"},
			want: ErrSlotNotAvailable,
		},
		{
			name: "serialization failure",
			err:  &pq.Error{Code: "40001", Message: "could not serialize access"},
			want: ErrSerialization,
		},
		{
			name: "wrapped exclusion violation",
			err:  fmt.Errorf("insert: %w", &pq.Error{Code: "23P01"}),
			want: ErrSlotNotAvailable,
		},
		{
			name: "other pq error",
			err:  &pq.Error{Code: "23505"},
			want: ErrExecQuery,
		},
		{
			name: "non pq error",
			err:  errors.New("connection reset"),
			want: ErrExecQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapPQError(tt.err, "Create - execute insert")
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "Create - execute insert")
		})
	}
}
