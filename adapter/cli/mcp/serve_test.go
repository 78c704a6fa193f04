package mcp

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseActorID(t *testing.T) {
	id, err := parseActorID("")
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, id)

	want := uuid.New()
	id, err = parseActorID(want.String())
	require.NoError(t, err)
	assert.Equal(t, want, id)

	_, err = parseActorID("student-1")
	assert.ErrorContains(t, err, "invalid ACADEMIA_ACTOR_ID")
}

func TestNewServerLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	newServerLogger(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	newServerLogger(&buf, true).Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}
