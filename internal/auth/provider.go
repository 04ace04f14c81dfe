package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPVerifier talks to the hosted phone-verification provider. It is a thin
// wrapper; the provider owns the challenge widget and code delivery.
type HTTPVerifier struct {
	baseURL string
	http    *http.Client
}

func NewHTTPVerifier(baseURL string, httpClient *http.Client) *HTTPVerifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPVerifier{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

type requestCodeBody struct {
	Phone string `json:"phone"`
}

type confirmCodeBody struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type confirmCodeResponse struct {
	Credential string `json:"credential"`
}

func (v *HTTPVerifier) RequestCode(ctx context.Context, phone string) error {
	return v.post(ctx, "/otp/request", requestCodeBody{Phone: phone}, nil)
}

func (v *HTTPVerifier) ConfirmCode(ctx context.Context, phone, code string) (string, error) {
	var out confirmCodeResponse
	if err := v.post(ctx, "/otp/confirm", confirmCodeBody{Phone: phone, Code: code}, &out); err != nil {
		return "", err
	}
	if out.Credential == "" {
		return "", fmt.Errorf("provider returned empty credential")
	}
	return out.Credential, nil
}

func (v *HTTPVerifier) Invalidate(ctx context.Context) error {
	return v.post(ctx, "/session/invalidate", nil, nil)
}

func (v *HTTPVerifier) post(ctx context.Context, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal provider request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.http.Do(req)
	if err != nil {
		return fmt.Errorf("provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode provider response: %w", err)
		}
	}
	return nil
}
