package cliq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const defaultAPIBase = "https://cliq.zoho.com/api/v2"

// Sender delivers messages to Cliq users and channels through the bot
// API. Without a bot token it degrades to log-only delivery, which is
// how the widget runs in demo mode.
type Sender struct {
	apiBase  string
	botToken string
	http     *http.Client
	logger   *zap.Logger
}

func NewSender(botToken string, logger *zap.Logger) *Sender {
	return &Sender{
		apiBase:  defaultAPIBase,
		botToken: botToken,
		http:     &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

// NewSenderWithAPIBase exists for tests.
func NewSenderWithAPIBase(botToken, apiBase string, logger *zap.Logger) *Sender {
	s := NewSender(botToken, logger)
	s.apiBase = apiBase
	return s
}

// Send posts a message to a user (direct) or a channel. Exactly one of
// userID/channelID should be set; when both are, the channel wins.
func (s *Sender) Send(ctx context.Context, userID, channelID string, msg Message) error {
	if s.botToken == "" {
		s.logger.Info("cliq delivery skipped (no bot token)",
			zap.String("user_id", userID),
			zap.String("channel_id", channelID),
			zap.String("text", msg.Text),
		)
		return nil
	}

	payload := struct {
		Message
		UserID    string `json:"user_id,omitempty"`
		ChannelID string `json:"channel_id,omitempty"`
	}{Message: msg, UserID: userID, ChannelID: channelID}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal cliq message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiBase+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build cliq request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Zoho-oauthtoken "+s.botToken)

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("send cliq message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("cliq api status %d: %s", resp.StatusCode, data)
	}
	return nil
}
