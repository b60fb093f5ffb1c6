package outbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPendingTransaction_Valid(t *testing.T) {
	tx, err := NewPendingTransaction("addr1", 2500, "USDC", nil, FeeNormal)
	require.NoError(t, err)
	assert.Equal(t, "addr1", tx.ToAddress)
	assert.Equal(t, int64(2500), tx.AmountMinor)
	assert.Equal(t, FeeNormal, tx.FeePreset)
	assert.Equal(t, 0, tx.Retries)
	assert.False(t, tx.CreatedAt.IsZero())
}

func TestNewPendingTransaction_EmptyAddress(t *testing.T) {
	_, err := NewPendingTransaction("", 2500, "USDC", nil, FeeNormal)
	assert.Error(t, err)
}

func TestNewPendingTransaction_NonPositiveAmount(t *testing.T) {
	_, err := NewPendingTransaction("addr1", 0, "USDC", nil, FeeNormal)
	assert.Error(t, err)

	_, err = NewPendingTransaction("addr1", -1, "USDC", nil, FeeNormal)
	assert.Error(t, err)
}

func TestNewPendingTransaction_EmptyToken(t *testing.T) {
	_, err := NewPendingTransaction("addr1", 2500, "", nil, FeeNormal)
	assert.Error(t, err)
}

func TestNewPendingTransaction_UnknownFeePreset(t *testing.T) {
	_, err := NewPendingTransaction("addr1", 2500, "USDC", nil, FeePreset("turbo"))
	assert.Error(t, err)
}

func TestFeePreset_Valid(t *testing.T) {
	assert.True(t, FeeEconomy.Valid())
	assert.True(t, FeeNormal.Valid())
	assert.True(t, FeePriority.Valid())
	assert.False(t, FeePreset("").Valid())
	assert.False(t, FeePreset("fast").Valid())
}
