package reconcile

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseNotification_Body(t *testing.T) {
	h := http.Header{}
	h.Set("x-request-id", "req-1")
	h.Set("x-signature", "ts=1,v1=ab")
	n, err := ParseNotification([]byte(`{"id":12345,"type":"payment","action":"payment.updated","data":{"id":"PAY123"}}`), url.Values{}, h)
	require.NoError(t, err)
	require.Equal(t, "payment", n.Type)
	require.Equal(t, "payment.updated", n.Action)
	require.Equal(t, "PAY123", n.DataID)
	require.Equal(t, "req-1", n.RequestID)
	require.Equal(t, "ts=1,v1=ab", n.Signature)
}

func TestParseNotification_NumericDataID(t *testing.T) {
	n, err := ParseNotification([]byte(`{"type":"payment","data":{"id":987654321}}`), url.Values{}, http.Header{})
	require.NoError(t, err)
	require.Equal(t, "987654321", n.DataID)
}

func TestParseNotification_QueryFallback(t *testing.T) {
	n, err := ParseNotification(nil, url.Values{"topic": {"payment"}, "id": {"42"}}, http.Header{})
	require.NoError(t, err)
	require.Equal(t, "payment", n.Type)
	require.Equal(t, "42", n.DataID)

	n, err = ParseNotification([]byte(`{"action":"x"}`), url.Values{"type": {"subscription_preapproval"}, "data.id": {"pre-1"}}, http.Header{})
	require.NoError(t, err)
	require.Equal(t, "subscription_preapproval", n.Type)
	require.Equal(t, "pre-1", n.DataID)
}

func TestParseNotification_MissingFieldsParseButStayEmpty(t *testing.T) {
	n, err := ParseNotification([]byte(`{"type":"payment"}`), url.Values{}, http.Header{})
	require.NoError(t, err)
	require.Empty(t, n.DataID)
}

func TestParseNotification_InvalidJSON(t *testing.T) {
	_, err := ParseNotification([]byte(`{not json`), url.Values{}, http.Header{})
	require.ErrorIs(t, err, ErrMalformedNotification)
}
