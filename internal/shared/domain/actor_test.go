package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseActorID(t *testing.T) {
	t.Run("parses a UUID", func(t *testing.T) {
		id := uuid.New()

		actorID, err := ParseActorID("  " + id.String() + " ")
		require.NoError(t, err)

		assert.Equal(t, id, actorID.UUID())
		assert.Equal(t, id.String(), actorID.String())
		assert.False(t, actorID.IsEmpty())
		assert.Equal(t, NewActorID(id), actorID)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseActorID("student-42")

		assert.ErrorIs(t, err, ErrInvalidActorID)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := ParseActorID("")

		assert.ErrorIs(t, err, ErrInvalidActorID)
	})
}

func TestActorID_IsEmpty(t *testing.T) {
	assert.True(t, ActorID{}.IsEmpty())
	assert.True(t, NewActorID(uuid.Nil).IsEmpty())
}
