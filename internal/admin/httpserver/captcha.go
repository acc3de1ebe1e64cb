package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RecaptchaVerifyURL is the reCAPTCHA verification endpoint.
const RecaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// CaptchaVerifier checks the response token posted by the reCAPTCHA widget.
type CaptchaVerifier interface {
	Verify(ctx context.Context, secret, response, remoteIP string) (bool, error)
}

// CaptchaVerifierFunc adapts a function to CaptchaVerifier.
type CaptchaVerifierFunc func(ctx context.Context, secret, response, remoteIP string) (bool, error)

func (fn CaptchaVerifierFunc) Verify(ctx context.Context, secret, response, remoteIP string) (bool, error) {
	return fn(ctx, secret, response, remoteIP)
}

type recaptchaVerifier struct {
	client   *http.Client
	endpoint string
}

// NewRecaptchaVerifier verifies tokens against the Google endpoint. A nil
// client uses a client with a short timeout.
func NewRecaptchaVerifier(client *http.Client) CaptchaVerifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &recaptchaVerifier{client: client, endpoint: RecaptchaVerifyURL}
}

func (v *recaptchaVerifier) Verify(ctx context.Context, secret, response, remoteIP string) (bool, error) {
	if strings.TrimSpace(response) == "" {
		return false, nil
	}
	form := url.Values{}
	form.Set("secret", secret)
	form.Set("response", response)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("httpserver: recaptcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("httpserver: recaptcha verify: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("httpserver: recaptcha verify: status %d", resp.StatusCode)
	}

	var payload struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return false, fmt.Errorf("httpserver: recaptcha decode: %w", err)
	}
	return payload.Success, nil
}
