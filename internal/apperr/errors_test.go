package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad %s", "id")))
	assert.Equal(t, KindForbidden, KindOf(Forbidden("nope")))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrapped: %w", NotFound("review"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestInternalKeepsTypedErrors(t *testing.T) {
	nf := NotFound("user")
	assert.Same(t, nf, Internal("ban user", nf))
	assert.Nil(t, Internal("noop", nil))

	err := Internal("ban user", errors.New("conn reset"))
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "ban user failed", Message(err))
	assert.ErrorContains(t, err, "conn reset")
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "user not found", Message(NotFound("user")))
	assert.Equal(t, "unexpected error", Message(errors.New("raw")))
}
