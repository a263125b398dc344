package recordid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSplitRoundTrip(t *testing.T) {
	id := Format("eko", 7)
	assert.Equal(t, "eko-7", id)

	tenant, seq, err := Split(id)
	require.NoError(t, err)
	assert.Equal(t, "eko", tenant)
	assert.Equal(t, int64(7), seq)
}

func TestSplitHandleWithHyphen(t *testing.T) {
	tenant, seq, err := Split("agen-jaya-12")
	require.NoError(t, err)
	assert.Equal(t, "agen-jaya", tenant)
	assert.Equal(t, int64(12), seq)
}

func TestSplitRejectsMalformed(t *testing.T) {
	for _, id := range []string{"", "eko", "eko-", "-5", "eko-abc", "eko-0"} {
		_, _, err := Split(id)
		assert.ErrorIs(t, err, ErrInvalidFormat, "id %q", id)
	}
}

func TestOwnedBy(t *testing.T) {
	assert.True(t, OwnedBy("alice-5", "alice"))
	assert.False(t, OwnedBy("alice-5", "bob"))
	assert.False(t, OwnedBy("alice", "alice"))
}
