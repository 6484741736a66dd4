package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantSnapshot_ScanValue(t *testing.T) {
	c := &VariantCombination{ID: 9, Name: "Aluno-Normal", Code: "AL-N"}
	snap := SnapshotOf(c)

	v, err := snap.Value()
	require.NoError(t, err)

	var back VariantSnapshot
	require.NoError(t, back.Scan(v))
	require.NotNil(t, back.CombinationID)
	assert.Equal(t, int64(9), *back.CombinationID)
	assert.Equal(t, "Aluno-Normal", *back.CombinationName)
	assert.Equal(t, "AL-N", *back.CombinationCode)
}

func TestVariantSnapshot_ScanLegacyAndNull(t *testing.T) {
	var snap VariantSnapshot
	require.NoError(t, snap.Scan(`{"combinationId": 4, "combinationName": "Professor"}`))
	assert.Equal(t, int64(4), *snap.CombinationID)
	assert.Nil(t, snap.CombinationCode)

	require.NoError(t, snap.Scan(nil))
	assert.True(t, snap.IsZero())

	assert.Error(t, snap.Scan(42))
}

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusApproved, OrderStatusDelivered, OrderStatusCanceled} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, OrderStatus("SHIPPED").Valid())
	assert.False(t, OrderStatus("pending").Valid())
}

func TestRoundMoney_HalfUp(t *testing.T) {
	assert.True(t, RoundMoney(decimal.RequireFromString("2.345")).Equal(decimal.RequireFromString("2.35")))
	assert.True(t, RoundMoney(decimal.RequireFromString("2.344")).Equal(decimal.RequireFromString("2.34")))
	assert.True(t, RoundMoney(decimal.RequireFromString("0.125")).Equal(decimal.RequireFromString("0.13")))
}

func TestDecimalMarshalsAsNumber(t *testing.T) {
	b, err := json.Marshal(ReportTotals{Quantity: 5, TotalValue: decimal.RequireFromString("42.5")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"quantity":5,"totalValue":42.5}`, string(b))
}
