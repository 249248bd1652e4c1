package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SaieshPriolkar/coinvision/internal/httputil"
)

// Sender posts ops alerts (provider outages, batch failures) to a Slack or
// Discord style webhook. With no URL configured it logs to the console only.
type Sender struct {
	webhookURL  string
	serviceName string
	httpClient  *http.Client
	retry       httputil.RetryConfig
}

func NewSender(webhookURL, serviceName string) *Sender {
	if serviceName == "" {
		serviceName = "CoinvisionAPI"
	}
	return &Sender{
		webhookURL:  webhookURL,
		serviceName: serviceName,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		retry: httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   1 * time.Second,
			MaxDelay:    5 * time.Second,
		},
	}
}

func (s *Sender) Send(msg string) {
	formatted := fmt.Sprintf("[%s] %s", s.serviceName, msg)
	fmt.Printf("[%s] %s\n", time.Now().UTC().Format(time.RFC3339), formatted)

	if s.webhookURL == "" {
		return
	}

	payload := s.formatPayload(formatted)
	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("[ALERT ERROR] marshal: %v\n", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := httputil.Do(ctx, s.httpClient, s.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		fmt.Printf("[ALERT ERROR] Failed to send alert after retries: %v\n", err)
		return
	}
	resp.Body.Close()
}

func (s *Sender) formatPayload(msg string) map[string]string {
	if strings.Contains(s.webhookURL, "discord") {
		return map[string]string{
			"content":  msg,
			"username": s.serviceName,
		}
	}
	return map[string]string{
		"text":     fmt.Sprintf("`%s`", msg),
		"username": s.serviceName,
	}
}

func (s *Sender) Enabled() bool {
	return s.webhookURL != ""
}
