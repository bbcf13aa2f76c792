package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorChain(t *testing.T) {
	cause := stderrors.New("disk full")
	err := fmt.Errorf("submit: %w", Wrap(ErrCodePersistence, "Could not save your request", cause))

	assert.Equal(t, ErrCodePersistence, CodeOf(err))
	assert.True(t, Is(err, ErrCodePersistence))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Could not save your request", MessageOf(err))
	assert.Equal(t, "submit: PERSISTENCE_ERROR: Could not save your request (disk full)", err.Error())
}

func TestCodeOfPlainError(t *testing.T) {
	err := stderrors.New("boom")
	assert.Equal(t, ErrCodeInternalError, CodeOf(err))
	assert.Equal(t, "boom", MessageOf(err))
	assert.False(t, IsValidation(err))
}

func TestIsValidation(t *testing.T) {
	for _, code := range []ErrorCode{ErrCodeValidation, ErrCodeInvalidPhone, ErrCodeConsentRequired, ErrCodeStepIncomplete} {
		assert.True(t, IsValidation(New(code, "x")), code)
	}
	assert.False(t, IsValidation(New(ErrCodeInvalidState, "x")))
}

func TestWithFieldsCopies(t *testing.T) {
	base := New(ErrCodeStepIncomplete, "Please fill in the required fields")
	withFields := base.WithFields("name", "email")

	assert.Empty(t, base.Fields)
	assert.Equal(t, []string{"name", "email"}, withFields.Fields)
}
