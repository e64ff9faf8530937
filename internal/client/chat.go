package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Status   string `json:"status"`
	Response string `json:"response"`
}

// Chat posts one message to the chat backend and returns its reply
type Chat struct {
	url  string
	http *http.Client
}

func NewChat(url string, timeout time.Duration) *Chat {
	return &Chat{url: url, http: newHTTPClient(timeout)}
}

// Reply sends message. A status other than "success" or an empty response is ErrChatFailed.
func (c *Chat) Reply(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var out chatResponse
	if err := doJSON(c.http, req, &out); err != nil {
		return "", err
	}
	if out.Status != "success" {
		return "", fmt.Errorf("%w: status %q", ErrChatFailed, out.Status)
	}
	if out.Response == "" {
		return "", fmt.Errorf("%w: empty response", ErrChatFailed)
	}
	return out.Response, nil
}
