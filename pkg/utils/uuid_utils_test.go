package utils

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUUIDv7(t *testing.T) {
	id := GenerateUUIDv7()
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestGenerateUUIDv7_FallbackBranch(t *testing.T) {
	orig := newUUIDv7
	t.Cleanup(func() { newUUIDv7 = orig })

	newUUIDv7 = func() (uuid.UUID, error) {
		return uuid.Nil, errors.New("v7 failed")
	}
	id := GenerateUUIDv7()
	assert.NotEqual(t, uuid.Nil, id, "expected v4 fallback id when v7 fails")
}

func TestParseOptionalUUID(t *testing.T) {
	id, err := ParseOptionalUUID("  ")
	require.NoError(t, err)
	assert.Nil(t, id)

	want := uuid.New()
	id, err = ParseOptionalUUID(want.String())
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, want, *id)

	_, err = ParseOptionalUUID("not-a-uuid")
	assert.Error(t, err)
}
