package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestIsCode(t *testing.T) {
	err := NotFound("missing thing")
	assert.True(t, IsCode(err, ErrCodeNotFound))
	assert.False(t, IsCode(err, ErrCodeConflict))

	wrapped := fmt.Errorf("load: %w", err)
	assert.True(t, IsCode(wrapped, ErrCodeNotFound))

	assert.False(t, IsCode(errors.New("plain"), ErrCodeNotFound))
	assert.False(t, IsCode(nil, ErrCodeNotFound))
}

func TestMapDBError(t *testing.T) {
	assert.NoError(t, MapDBError(nil))

	assert.True(t, IsCode(MapDBError(pgx.ErrNoRows), ErrCodeNotFound))
	assert.True(t, IsCode(MapDBError(context.DeadlineExceeded), ErrCodeTimeout))
	assert.True(t, IsCode(MapDBError(context.Canceled), ErrCodeCanceled))

	// Unrecognized errors pass through unchanged.
	plain := errors.New("plain")
	assert.Equal(t, plain, MapDBError(plain))
}

func TestUpstreamErrorDefinitive(t *testing.T) {
	tests := []struct {
		status     int
		definitive bool
	}{
		{400, true},
		{401, true},
		{404, true},
		{499, true},
		{500, false},
		{502, false},
		{302, false},
	}

	for _, tt := range tests {
		err := &UpstreamError{StatusCode: tt.status, Message: "x"}
		assert.Equal(t, tt.definitive, err.Definitive(), "status %d", tt.status)
	}
}

func TestUpstreamErrorMessage(t *testing.T) {
	err := &UpstreamError{StatusCode: 400, Message: "invalid_grant"}
	assert.Equal(t, "invalid_grant (status 400)", err.Error())
}
