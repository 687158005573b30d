package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestLineItemsTotal(t *testing.T) {
	items := []LineItem{
		{ID: "x1", UnitPrice: decimal.NewFromInt(100), Quantity: 2, CurrencyID: "ARS"},
		{ID: "x2", UnitPrice: decimal.RequireFromString("10.25"), Quantity: 3, CurrencyID: "ARS"},
	}
	require.True(t, decimal.RequireFromString("230.75").Equal(LineItemsTotal(items)))
	require.True(t, LineItemsTotal(nil).IsZero())
}

func TestPlanValid(t *testing.T) {
	p := &Plan{ID: "pro", Amount: decimal.NewFromInt(1500), Currency: "ARS", Frequency: 1, FrequencyType: FrequencyTypeMonths}
	require.True(t, p.Valid())
	p.FrequencyType = "weeks"
	require.False(t, p.Valid())
	var nilPlan *Plan
	require.False(t, nilPlan.Valid())
}

func TestValidateFields(t *testing.T) {
	allowed := []string{"status", "buyer_id"}
	require.NoError(t, ValidateFields([]*CommonFilter{{Field: "status"}}, allowed))
	require.Error(t, ValidateFields([]*CommonFilter{{Field: "status; drop table x"}}, allowed))
}

func TestValidateFields_RejectsNullEntry(t *testing.T) {
	allowed := []string{"status"}
	err := ValidateFields([]*CommonFilter{{Field: "status"}, nil}, allowed)
	require.EqualError(t, err, "filters[1] is null")
}
