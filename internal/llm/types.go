// Package llm talks to the external reasoning service.
package llm

import "context"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client sends one completion request and returns the primary text of the reply.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
