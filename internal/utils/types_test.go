package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseError(t *testing.T) {
	tests := []struct {
		errType ErrorType
		want    string
	}{
		{ErrTypeIOError, "io"},
		{ErrTypeCorruption, "corruption"},
		{ErrorType(7), "type(7)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.errType.String())
	}

	err := NewDatabaseError(ErrTypeCorruption, "read page 4", ErrChecksumMismatch).WithContext("page", PageID(4))
	assert.ErrorIs(t, err, ErrChecksumMismatch)
	assert.Equal(t, PageID(4), err.Context["page"])
	assert.Contains(t, err.Error(), "[corruption]")

	var dbErr *DatabaseError
	assert.True(t, errors.As(error(err), &dbErr))
	assert.Equal(t, ErrTypeCorruption, dbErr.Type)
}
