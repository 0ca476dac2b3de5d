package sms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebsam/opsdash/internal/config"
)

func TestSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"from": "OPSDASH", "to": "+254700000001", "text": "hello"}, body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messageId":"m-1","status":"queued"}`))
	}))
	defer srv.Close()

	c := NewClient(config.SMSConfig{BaseURL: srv.URL + "/", APIKey: "secret", SenderID: "OPSDASH"})
	resp, err := c.Send(context.Background(), SendRequest{To: "+254700000001", Body: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "m-1", resp.MessageID)
}

func TestSendGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"code":503,"message":"maintenance"}`))
	}))
	defer srv.Close()

	c := NewClient(config.SMSConfig{BaseURL: srv.URL, APIKey: "secret"})
	_, err := c.Send(context.Background(), SendRequest{To: "+254700000001", Body: "hello"})

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, "maintenance", statusErr.Message)
	assert.True(t, statusErr.Temporary())
}
