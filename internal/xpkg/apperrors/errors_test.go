package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	assert.Equal(t, KindBusiness, KindOf(ErrSlotFull))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(Internal("db down", errors.New("conn refused"))))
}

func TestSentinelMatching(t *testing.T) {
	assert.ErrorIs(t, ErrEmptyCart, ErrEmptyCart)
	assert.NotErrorIs(t, ErrEmptyCart, ErrSlotFull)

	// sentinels survive wrapping
	wrapped := fmt.Errorf("create order: %w", ErrInsufficientPoints)
	assert.ErrorIs(t, wrapped, ErrInsufficientPoints)
	assert.Equal(t, KindBusiness, KindOf(wrapped))
}

func TestInternalMasksNothingButCarriesCause(t *testing.T) {
	cause := errors.New("conn refused")
	err := Internal("db down", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "db down: conn refused", err.Error())
}

func TestInvalidStatusTransition(t *testing.T) {
	err := InvalidStatusTransition("new", "delivered")
	assert.Equal(t, KindBusiness, KindOf(err))
	assert.Contains(t, err.Error(), "new")
	assert.Contains(t, err.Error(), "delivered")
}
