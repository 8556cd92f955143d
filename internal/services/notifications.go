package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/careflow/booking-api/internal/config"
)

// Notifier is the outbound notification gateway: one email channel and one
// WhatsApp message channel. Delivery is best-effort; callers treat failures
// as log-only and never roll back persisted state.
type Notifier interface {
	SendEmail(ctx context.Context, to, subject, body string) error
	SendMessage(ctx context.Context, number, body string) error
}

// NotificationService delivers through HTTP JSON gateway APIs configured by
// URL and key, one endpoint per channel.
type NotificationService struct {
	client *http.Client
	logger *zap.Logger

	emailURL  string
	emailKey  string
	emailFrom string

	whatsappURL string
	whatsappKey string
}

func NewNotificationService(cfg *config.Config, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		client:      &http.Client{Timeout: cfg.NotifyTimeout},
		logger:      logger,
		emailURL:    cfg.EmailAPIURL,
		emailKey:    cfg.EmailAPIKey,
		emailFrom:   cfg.EmailFrom,
		whatsappURL: cfg.WhatsAppAPIURL,
		whatsappKey: cfg.WhatsAppAPIKey,
	}
}

func (s *NotificationService) SendEmail(ctx context.Context, to, subject, body string) error {
	if s.emailURL == "" {
		s.logger.Debug("email gateway not configured, skipping", zap.String("to", to))
		return nil
	}
	if to == "" {
		s.logger.Info("email not sent: recipient has no address")
		return nil
	}
	err := s.post(ctx, s.emailURL, map[string]string{
		"from":    s.emailFrom,
		"to":      to,
		"subject": subject,
		"body":    body,
		"key":     s.emailKey,
	})
	if err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	s.logger.Debug("email dispatched", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func (s *NotificationService) SendMessage(ctx context.Context, number, body string) error {
	if s.whatsappURL == "" {
		s.logger.Debug("whatsapp gateway not configured, skipping", zap.String("number", number))
		return nil
	}
	if number == "" {
		s.logger.Info("message not sent: recipient has no phone number")
		return nil
	}
	err := s.post(ctx, s.whatsappURL, map[string]string{
		"phone":   number,
		"message": body,
		"key":     s.whatsappKey,
	})
	if err != nil {
		return fmt.Errorf("send message to %s: %w", number, err)
	}
	s.logger.Debug("whatsapp message dispatched", zap.String("number", number))
	return nil
}

func (s *NotificationService) post(ctx context.Context, url string, payload map[string]string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !result.Success {
		return fmt.Errorf("gateway refused delivery (status %d): %s", resp.StatusCode, result.Error)
	}
	return nil
}
