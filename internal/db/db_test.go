package db

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID_Valid(t *testing.T) {
	want := uuid.New()

	got, err := ParseID(want.String())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParseID_Malformed(t *testing.T) {
	for _, input := range []string{"", "not-a-uuid", "12345", "686f8e7c"} {
		id, err := ParseID(input)
		require.Error(t, err, "input %q", input)
		assert.Equal(t, uuid.Nil, id)

		var invalidID *InvalidIDError
		require.ErrorAs(t, err, &invalidID)
		assert.Equal(t, input, invalidID.Value)
	}
}

func TestInvalidIDError_Message(t *testing.T) {
	_, err := ParseID("nope")
	assert.Contains(t, err.Error(), `invalid record id: "nope"`)
}
