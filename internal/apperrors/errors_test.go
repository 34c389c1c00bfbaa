package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(CodeInvalidInput, "empty keyword at index %d", 3)

	assert.Equal(t, CodeInvalidInput, err.Code)
	assert.Equal(t, "empty keyword at index 3", err.Message)
	assert.Nil(t, err.Cause)
	assert.Equal(t, "INVALID_INPUT: empty keyword at index 3", err.Error())
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CodeStorage, cause, "upload snapshot %s", "dict-7")

	assert.Equal(t, CodeStorage, err.Code)
	assert.Equal(t, "STORAGE_ERROR: upload snapshot dict-7: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestIs(t *testing.T) {
	err := New(CodeSearcherNotFound, "searcher %q not found", "abc")

	assert.True(t, Is(err, CodeSearcherNotFound))
	assert.False(t, Is(err, CodeInvalidInput))
	assert.False(t, Is(errors.New("plain"), CodeSearcherNotFound))
	assert.False(t, Is(nil, CodeSearcherNotFound))
}

func TestIsWrappedChain(t *testing.T) {
	inner := New(CodeDatabase, "insert dictionary")
	outer := fmt.Errorf("save failed: %w", inner)

	assert.True(t, Is(outer, CodeDatabase))
	assert.Equal(t, CodeDatabase, GetCode(outer))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeTimeout, GetCode(New(CodeTimeout, "deadline exceeded")))
	assert.Equal(t, CodeInternal, GetCode(errors.New("plain")))
}

func TestUserMessage(t *testing.T) {
	err := Wrap(CodeDatabase, errors.New("pq: duplicate key"), "create dictionary")

	assert.Equal(t, "create dictionary", UserMessage(err))
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"generic not found", New(CodeNotFound, "gone"), true},
		{"searcher not found", New(CodeSearcherNotFound, "gone"), true},
		{"dictionary not found", New(CodeDictionaryNotFound, "gone"), true},
		{"snapshot not found", New(CodeSnapshotNotFound, "gone"), true},
		{"validation error", New(CodeInvalidInput, "bad"), false},
		{"plain error", errors.New("plain"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNotFound(tt.err))
		})
	}
}
