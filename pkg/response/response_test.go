package response

import (
	"errors"
	"net/http"
	"testing"

	"github.com/fatflowers/marketpay/pkg/apperr"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   APIResponseCode
	}{
		{apperr.Validation("bad"), http.StatusBadRequest, APIResponseCodeBadRequest},
		{apperr.Auth("no session"), http.StatusUnauthorized, APIResponseCodeUnauthorized},
		{apperr.Forbidden("not owner"), http.StatusForbidden, APIResponseCodeForbidden},
		{apperr.NotFound("plan %s", "x"), http.StatusNotFound, APIResponseCodeNotFound},
		{apperr.Upstream(errors.New("timeout"), "processor"), http.StatusBadGateway, APIResponseCodeUpstream},
		{errors.New("db down"), http.StatusInternalServerError, APIResponseCodeError},
	}
	for _, tc := range cases {
		status, code := FromError(tc.err)
		require.Equal(t, tc.status, status, tc.err.Error())
		require.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestErrorT_UsesCodeMessage(t *testing.T) {
	r := ErrorT[any](APIResponseCodeForbidden, "nope")
	require.Equal(t, "forbidden", r.Message)
	require.Equal(t, "nope", r.Data)
}
