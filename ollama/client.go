// Package ollama is a minimal client for an Ollama-compatible chat endpoint
// that lets the model drive tools registered with a toolcall.Handler.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultBaseURL is the endpoint of a local Ollama installation.
const DefaultBaseURL = "http://localhost:11434/api"

// defaultMaxRounds bounds how many tool rounds one Converse call may run
// before giving up on a model that keeps requesting tools.
const defaultMaxRounds = 8

// Message is one chat message.
type Message struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID       string   `json:"id,omitempty"`
	Function Function `json:"function"`
}

// Function names the requested tool and carries its arguments object.
type Function struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ChatRequest is the request body of the chat endpoint.
type ChatRequest struct {
	Model    string          `json:"model"`
	Messages []Message       `json:"messages"`
	Tools    json.RawMessage `json:"tools,omitempty"`
	Stream   bool            `json:"stream"`
}

// ChatResponse is the response body of the chat endpoint.
type ChatResponse struct {
	Model      string  `json:"model"`
	CreatedAt  string  `json:"created_at"`
	Message    Message `json:"message"`
	Done       bool    `json:"done"`
	DoneReason string  `json:"done_reason,omitempty"`
}

// Client talks to an Ollama-compatible chat endpoint.
type Client struct {
	baseURL   string
	http      *http.Client
	logger    *slog.Logger
	maxRounds int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithLogger enables request/tool-round logging.
func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		if logger == nil {
			logger = slog.Default()
		}
		cl.logger = logger
	}
}

// WithMaxRounds bounds the number of tool rounds per Converse call.
func WithMaxRounds(n int) Option {
	return func(cl *Client) {
		if n > 0 {
			cl.maxRounds = n
		}
	}
}

// NewClient creates a Client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 120 * time.Second},
		maxRounds: defaultMaxRounds,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chat sends one non-streaming chat request.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.logger != nil {
		c.logger.Info("chat request", "endpoint", c.baseURL, "model", req.Model, "messages", len(req.Messages))
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("chat request: unexpected status %s: %s", resp.Status, snippet)
	}
	var out ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	return &out, nil
}
