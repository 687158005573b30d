package transaction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fatflowers/marketpay/pkg/apperr"
	"github.com/fatflowers/marketpay/pkg/types"
)

func TestScanRequest_NormalizeDefaults(t *testing.T) {
	req := &ScanRequest{Size: 0, From: -3}
	require.NoError(t, req.normalize(transactionColumns))
	require.Equal(t, 10, req.Size)
	require.Equal(t, 0, req.From)
	require.Equal(t, "created_at", req.SortBy)

	req = &ScanRequest{Size: 10_000}
	require.NoError(t, req.normalize(transactionColumns))
	require.Equal(t, maxScanSize, req.Size)
}

func TestScanRequest_RejectsUnknownColumns(t *testing.T) {
	err := (&ScanRequest{SortBy: "created_at; drop table transaction"}).normalize(transactionColumns)
	require.ErrorIs(t, err, apperr.ErrValidation)

	err = (&ScanRequest{Filters: []*types.CommonFilter{{Field: "plan_id", Operator: types.CommonFilterOperatorEq, Values: []any{"pro"}}}}).normalize(transactionColumns)
	require.ErrorIs(t, err, apperr.ErrValidation)

	err = (&ScanRequest{Filters: []*types.CommonFilter{{Field: "plan_id", Operator: types.CommonFilterOperatorEq, Values: []any{"pro"}}}}).normalize(subscriptionColumns)
	require.NoError(t, err)
}

func TestScanRequest_RejectsNullFilter(t *testing.T) {
	err := (&ScanRequest{Filters: []*types.CommonFilter{nil}}).normalize(transactionColumns)
	require.ErrorIs(t, err, apperr.ErrValidation)
}
