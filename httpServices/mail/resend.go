package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"freight-admin/services/notification"
)

type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendEmailResponse struct {
	ID string `json:"id"`
}

// ResendClient delivers emails through the Resend REST API.
type ResendClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	from       string
}

func NewResendClient(baseURL, apiKey, from string) *ResendClient {
	return &ResendClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		from:    from,
	}
}

// Send implements notification.Channel.
func (c *ResendClient) Send(ctx context.Context, msg notification.Message) error {
	body, err := json.Marshal(sendEmailRequest{
		From:    c.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTMLBody,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("resend api error: status=%d body=%s", resp.StatusCode, string(raw))
	}

	var out sendEmailResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode resend response: %w", err)
	}
	if out.ID == "" {
		return fmt.Errorf("resend api returned no message id")
	}
	return nil
}
