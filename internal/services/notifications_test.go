package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/careflow/booking-api/internal/config"
)

func newGatewayServer(t *testing.T, succeed bool, got *map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		if got != nil {
			*got = payload
		}
		if succeed {
			json.NewEncoder(w).Encode(map[string]any{"success": true})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "quota exceeded"})
	}))
}

func TestSendEmail(t *testing.T) {
	var got map[string]string
	srv := newGatewayServer(t, true, &got)
	defer srv.Close()

	svc := NewNotificationService(&config.Config{
		EmailAPIURL:   srv.URL,
		EmailAPIKey:   "email-key",
		EmailFrom:     "no-reply@careflow.local",
		NotifyTimeout: 5 * time.Second,
	}, zap.NewNop())

	err := svc.SendEmail(context.Background(), "alice@example.com", "Appointment Booked", "hello")
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", got["to"])
	assert.Equal(t, "Appointment Booked", got["subject"])
	assert.Equal(t, "hello", got["body"])
	assert.Equal(t, "email-key", got["key"])
}

func TestSendMessage_GatewayRefusal(t *testing.T) {
	srv := newGatewayServer(t, false, nil)
	defer srv.Close()

	svc := NewNotificationService(&config.Config{
		WhatsAppAPIURL: srv.URL,
		NotifyTimeout:  5 * time.Second,
	}, zap.NewNop())

	err := svc.SendMessage(context.Background(), "+15550100", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestSendEmail_UnconfiguredGatewayIsNoop(t *testing.T) {
	svc := NewNotificationService(&config.Config{NotifyTimeout: time.Second}, zap.NewNop())

	assert.NoError(t, svc.SendEmail(context.Background(), "alice@example.com", "s", "b"))
	assert.NoError(t, svc.SendMessage(context.Background(), "+15550100", "b"))
}

func TestSendMessage_EmptyRecipientIsNoop(t *testing.T) {
	srv := newGatewayServer(t, true, nil)
	defer srv.Close()

	svc := NewNotificationService(&config.Config{
		WhatsAppAPIURL: srv.URL,
		NotifyTimeout:  time.Second,
	}, zap.NewNop())

	assert.NoError(t, svc.SendMessage(context.Background(), "", "b"))
}
