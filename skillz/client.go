// skillz/client.go
package skillz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrTransport marks failures of the outbound call itself (network error or non-2xx status).
var ErrTransport = errors.New("lightning transport failure")

////////////////////////////////////////////////////////////////////////

// Anything with CallLLM method can act as a LLMClient
// LLMClient defines an interface for making LLM calls
type LLMClient interface {
	// CallLLM sends prompt as the user message and returns the raw response body.
	CallLLM(ctx context.Context, prompt string) (string, error)
}

////////////////////////////////////////////////////////////////////////

// LightningClient calls the hosted Lightning AI inference endpoint.
// It holds only immutable configuration and is safe for concurrent use.
type LightningClient struct {
	apiURL string
	token  string
	client *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []chatMessage `json:"messages"`
}

// NewLightningClient creates a client for apiURL authenticated with a bearer token.
// A nil http.Client falls back to http.DefaultClient.
func NewLightningClient(apiURL, token string, client *http.Client) *LightningClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &LightningClient{
		apiURL: apiURL,
		token:  token,
		client: client,
	}
}

// CallLLM implements the LLMClient interface.
// There is no retry: one POST per call, any error or non-2xx status is returned wrapped in ErrTransport.
func (c *LightningClient) CallLLM(ctx context.Context, prompt string) (string, error) {
	bodyBytes, err := json.Marshal(chatRequest{
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &TransportError{Op: "Lightning AI request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Op: "failed to read Lightning AI response", Err: err}
	}

	return string(respBody), nil
}

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Lightning AI API error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Unwrap() error {
	return ErrTransport
}

// TransportError wraps a network-level failure of the outbound call.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}
