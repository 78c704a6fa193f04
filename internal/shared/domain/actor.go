package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidActorID is returned when an actor identifier cannot be parsed.
var ErrInvalidActorID = errors.New("invalid actor id")

// ActorID identifies whoever owns availability or issues a command: a student,
// a tutor, or an administrator acting on a resource. The zero value means
// "nobody configured".
type ActorID struct {
	value uuid.UUID
}

// NewActorID wraps an existing identifier.
func NewActorID(id uuid.UUID) ActorID {
	return ActorID{value: id}
}

// ParseActorID parses a textual UUID. Surrounding whitespace is ignored.
func ParseActorID(s string) (ActorID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return ActorID{}, errors.Join(ErrInvalidActorID, err)
	}
	return ActorID{value: id}, nil
}

func (a ActorID) UUID() uuid.UUID { return a.value }
func (a ActorID) String() string  { return a.value.String() }
func (a ActorID) IsEmpty() bool   { return a.value == uuid.Nil }
