package ollama

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skosovsky/toolcall"
)

// envelope matches the function-call payload toolcall.Handler consumes.
type envelope struct {
	Type     string           `json:"type"`
	Function envelopeFunction `json:"function"`
}

type envelopeFunction struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Converse runs a conversation: the model is given the handler's tool
// manifest, and every tool call it produces is executed through the handler,
// with the result (or the failure text, so the model can self-correct) fed
// back as a tool message. The loop ends when the model answers without
// requesting tools, and returns the full message history.
func (c *Client) Converse(ctx context.Context, model, system, prompt string, h *toolcall.Handler) ([]Message, error) {
	manifest, err := h.Manifest()
	if err != nil {
		return nil, fmt.Errorf("export tool manifest: %w", err)
	}
	messages := []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: prompt},
	}
	for round := 0; round < c.maxRounds; round++ {
		resp, err := c.Chat(ctx, ChatRequest{
			Model:    model,
			Messages: messages,
			Tools:    manifest,
		})
		if err != nil {
			return messages, err
		}
		messages = append(messages, resp.Message)
		if len(resp.Message.ToolCalls) == 0 {
			return messages, nil
		}
		for _, call := range resp.Message.ToolCalls {
			messages = append(messages, Message{
				Role:    "tool",
				Content: c.runTool(ctx, h, call),
			})
		}
	}
	return messages, fmt.Errorf("model still requesting tools after %d rounds", c.maxRounds)
}

// runTool executes one requested call. Failures become message text instead
// of aborting the conversation; the taxonomy messages are written for exactly
// this round trip.
func (c *Client) runTool(ctx context.Context, h *toolcall.Handler, call ToolCall) string {
	payload, err := json.Marshal(envelope{
		Type: "function",
		Function: envelopeFunction{
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		},
	})
	if err != nil {
		return fmt.Sprintf("error: encode tool call: %v", err)
	}
	if c.logger != nil {
		c.logger.Info("tool call", "tool", call.Function.Name, "id", call.ID)
	}
	result, err := h.CallTool(ctx, payload)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("tool call failed", "tool", call.Function.Name, "error", err)
		}
		return "error: " + err.Error()
	}
	return result
}
