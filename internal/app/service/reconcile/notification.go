package reconcile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Event types sent by Mercado Pago in the notification envelope.
const (
	EventTypePayment     = "payment"
	EventTypePreapproval = "subscription_preapproval"
)

var (
	ErrMalformedNotification  = errors.New("malformed notification")
	ErrUnverifiedNotification = errors.New("unverified notification")
)

// Notification is one inbound webhook delivery.
type Notification struct {
	Type      string
	Action    string
	DataID    string
	RequestID string
	Signature string
	Raw       []byte
}

// envelope is the JSON body: {"type":"payment","action":"payment.updated","data":{"id":"123"}}.
type envelope struct {
	Type   string `json:"type"`
	Topic  string `json:"topic"`
	Action string `json:"action"`
	Data   struct {
		ID flexibleID `json:"id"`
	} `json:"data"`
}

// flexibleID accepts both "123" and 123.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = flexibleID(n.String())
	return nil
}

// ParseNotification builds a Notification from an HTTP delivery. Body fields win; the query
// string (type/topic, data.id/id) fills what the body lacks. A non-empty body that is not
// JSON is malformed; missing type or id is left for HandleNotification to reject.
func ParseNotification(body []byte, query url.Values, header http.Header) (*Notification, error) {
	var env envelope
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedNotification, err)
		}
	}
	n := &Notification{
		Type:      firstNonEmpty(env.Type, env.Topic, query.Get("type"), query.Get("topic")),
		Action:    env.Action,
		DataID:    firstNonEmpty(query.Get("data.id"), string(env.Data.ID), query.Get("id")),
		RequestID: header.Get("x-request-id"),
		Signature: header.Get("x-signature"),
		Raw:       body,
	}
	n.Type = strings.TrimSpace(n.Type)
	n.DataID = strings.TrimSpace(n.DataID)
	return n, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
