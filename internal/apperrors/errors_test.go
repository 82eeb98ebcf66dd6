package apperrors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	t.Run("validation errors carry their reason", func(t *testing.T) {
		err := Validation(ReasonRoomConflict, "room %s is taken", "101")

		ve, ok := AsValidation(err)
		assert.True(t, ok)
		assert.Equal(t, ReasonRoomConflict, ve.Reason)
		assert.Contains(t, ve.Message, "101")
		assert.Equal(t, "ROOM_CONFLICT: room 101 is taken", err.Error())
	})

	t.Run("wrapped errors still classify", func(t *testing.T) {
		err := fmt.Errorf("booking failed: %w", NotFound("room"))

		assert.True(t, IsNotFound(err))
		assert.False(t, IsConflict(err))
	})

	t.Run("categories do not cross-match", func(t *testing.T) {
		authErr := Authorization("staff role required")
		conflictErr := Conflict("lost write race")

		assert.True(t, IsAuthorization(authErr))
		assert.False(t, IsAuthorization(conflictErr))
		assert.True(t, IsConflict(conflictErr))
		assert.False(t, IsNotFound(authErr))

		_, ok := AsValidation(authErr)
		assert.False(t, ok)
	})
}
