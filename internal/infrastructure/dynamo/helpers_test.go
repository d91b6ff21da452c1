package dynamo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	c := encodeCursor("09123456789")
	phone, err := decodeCursor(c)
	require.NoError(t, err)
	assert.Equal(t, "09123456789", phone)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	_, err := decodeCursor("%%%not-base64%%%")
	assert.Error(t, err)
}

func TestStrKey(t *testing.T) {
	key := strKey("phone", "09123456789")
	require.Len(t, key, 1)
	assert.Contains(t, key, "phone")
}
