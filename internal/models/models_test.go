package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostPreview(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "short text", text: "hello", want: "hello"},
		{name: "exact length", text: "123456789012345", want: "123456789012345"},
		{name: "truncated", text: "Тестовый текст поста", want: "Тестовый текст "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := &Post{Text: tc.text}
			assert.Equal(t, tc.want, p.Preview())
			assert.Equal(t, tc.want, p.String())
		})
	}
}

func TestPostIsAuthoredBy(t *testing.T) {
	t.Parallel()

	p := &Post{AuthorID: 7}
	assert.True(t, p.IsAuthoredBy(7))
	assert.False(t, p.IsAuthoredBy(8))
	assert.False(t, (&Post{}).IsAuthoredBy(0))
}

func TestUserFullName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Leo Tolstoy", (&User{Username: "leo", FirstName: "Leo", LastName: "Tolstoy"}).FullName())
	assert.Equal(t, "Leo", (&User{Username: "leo", FirstName: "Leo"}).FullName())
	assert.Equal(t, "leo", (&User{Username: "leo"}).FullName())
}

func TestHasCode(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("follow: %w", NewInvalidOperationError("cannot follow yourself"))
	assert.True(t, HasCode(wrapped, CodeInvalidOperation))
	assert.False(t, HasCode(wrapped, CodeNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeNotFound))
}

func TestAppErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := NewInternalError(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Internal server error: connection refused", err.Error())
}
