package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSnapshotSignatureDeterminism verifies equal breakdowns sign equally
// and any field change produces a different signature.
func TestSnapshotSignatureDeterminism(t *testing.T) {
	engine := newTestEngine(t)

	c, err := engine.ComputePrice(&Request{BasePrice: 10, Quantity: 500})
	require.NoError(t, err)

	sig := SnapshotSignature(500, c)
	assert.Equal(t, sig, SnapshotSignature(500, c))
	assert.True(t, VerifySnapshot(500, c, sig))

	tampered := *c
	tampered.FinalTotal += 0.01
	assert.False(t, VerifySnapshot(500, &tampered, sig))

	assert.NotEqual(t, sig, SnapshotSignature(501, c), "quantity is part of the signed snapshot")
}
