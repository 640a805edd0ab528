package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReview(t *testing.T) {
	r, err := NewReview(1, 2, 5, "  写得很好  ")
	assert.NoError(t, err)
	assert.Equal(t, uint(1), r.BookID)
	assert.Equal(t, uint(2), r.UserID)
	assert.Equal(t, 5, r.Rating)
	assert.Equal(t, "写得很好", r.Comment)
}

func TestNewReview_InvalidRating(t *testing.T) {
	_, err := NewReview(1, 2, 0, "内容")
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = NewReview(1, 2, 6, "内容")
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestNewReview_EmptyComment(t *testing.T) {
	_, err := NewReview(1, 2, 3, "   ")
	assert.ErrorIs(t, err, ErrEmptyComment)
}
