package pricing

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// signatureVersion is bumped whenever the canonical encoding changes, so
// stored signatures from older encodings are never compared against new ones.
const signatureVersion = 1

// SnapshotSignature computes a deterministic signature over a priced
// breakdown and the quantity it was computed for. Cart and order rows store
// it next to the components snapshot, making stored totals tamper-evident
// without recomputation.
//
// The encoding is a fixed field order with amounts at exactly two decimal
// places; equal breakdowns always produce equal signatures.
func SnapshotSignature(quantity int, c *Components) string {
	var buf bytes.Buffer
	buf.WriteString("v")
	buf.WriteString(strconv.Itoa(signatureVersion))
	buf.WriteByte('|')
	buf.WriteString(strconv.Itoa(quantity))

	for _, v := range []float64{
		c.BasePrice,
		c.PaperCost,
		c.SizeModifier,
		c.CoatingModifier,
		c.TurnaroundModifier,
		c.AddOnCosts,
		c.Subtotal,
		c.QuantityDiscount,
		c.BrokerDiscount,
		c.FinalTotal,
		c.PerUnitPrice,
		c.Savings,
	} {
		buf.WriteByte('|')
		buf.WriteString(strconv.FormatFloat(v, 'f', 2, 64))
	}

	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])
}

// VerifySnapshot reports whether a stored signature matches the breakdown
// it was stored with.
func VerifySnapshot(quantity int, c *Components, signature string) bool {
	return SnapshotSignature(quantity, c) == signature
}
