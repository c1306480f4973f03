package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"backoffice/internal/apperr"
)

func TestUUID(t *testing.T) {
	assert.NoError(t, UUID("id", "0b9f3c52-4d1e-4f7a-9c2b-7e5d8a1f6c30"))

	for _, bad := range []string{
		"",
		"not-a-uuid",
		"0b9f3c524d1e4f7a9c2b7e5d8a1f6c30",
		"{0b9f3c52-4d1e-4f7a-9c2b-7e5d8a1f6c30}",
		"urn:uuid:0b9f3c52-4d1e-4f7a-9c2b-7e5d8a1f6c30",
		"0b9f3c52-4d1e-4f7a-9c2b-7e5d8a1f6cZZ",
	} {
		err := UUID("review_id", bad)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), bad)
		assert.Equal(t, "review_id must be a valid id", apperr.Message(err))
	}
}

func TestLength(t *testing.T) {
	assert.NoError(t, Length("name", "Salon", 2, 120))
	assert.Equal(t, "name is required", apperr.Message(Length("name", "  ", 1, 10)))
	assert.Equal(t, "name must be at least 2 characters", apperr.Message(Length("name", "a", 2, 10)))
	assert.Equal(t, "name must be at most 3 characters", apperr.Message(Length("name", "abcd", 1, 3)))
	// runes, not bytes
	assert.NoError(t, Length("name", "éé", 2, 2))
}

func TestReason(t *testing.T) {
	assert.Error(t, Reason("no"))
	assert.NoError(t, Reason("spam content"))
	assert.Error(t, Reason(strings.Repeat("x", 501)))
}

func TestLimit(t *testing.T) {
	assert.Equal(t, 50, Limit(0, 50, 500))
	assert.Equal(t, 50, Limit(-3, 50, 500))
	assert.Equal(t, 10, Limit(10, 50, 500))
	assert.Equal(t, 500, Limit(9000, 50, 500))
}

func TestFirst(t *testing.T) {
	a := apperr.Validation("a")
	assert.Nil(t, First(nil, nil))
	assert.Same(t, a, First(nil, a, apperr.Validation("b")))
}
