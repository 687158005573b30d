package logctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromCtx_EnrichesWithTraceAndUser(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core).Sugar()

	ctx := context.WithValue(context.Background(), TraceIDKey, "trace-1") //nolint:staticcheck
	ctx = context.WithValue(ctx, UserIDKey, "user-9")                     //nolint:staticcheck
	FromCtx(ctx, base).Infow("hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "trace-1", fields["trace_id"])
	require.Equal(t, "user-9", fields["user_id"])
}

func TestDetach_KeepsValuesButNotCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.WithValue(context.Background(), TraceIDKey, "t")) //nolint:staticcheck
	cancel()

	detached := Detach(parent)
	require.NoError(t, detached.Err())
	require.Equal(t, "t", TraceID(detached))
}
