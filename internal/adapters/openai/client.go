// Package openai implements the model invoker port against any
// OpenAI-compatible chat completions endpoint.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/baditaflorin/go_semantic_similarity/internal/ports"
)

// DefaultBaseURL is the standard OpenAI API endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// TransportError reports a failed model call: network failure, timeout, a
// non-2xx status, or an empty completion. It is consumed by the semantic
// cascade and exported for diagnostics.
type TransportError struct {
	Model      string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("model %s: status %d: %v", e.Model, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("model %s: %v", e.Model, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Config holds client connection settings.
type Config struct {
	// APIKey authenticates requests. Required.
	APIKey string
	// BaseURL overrides the API endpoint, e.g. for a local gateway.
	BaseURL string
	// ReadTimeout bounds a single HTTP exchange when the context carries
	// no deadline of its own.
	ReadTimeout time.Duration
}

// Client invokes chat completion models over HTTP.
type Client struct {
	config Config
	http   *fasthttp.Client
	logger ports.Logger
}

// NewClient creates an OpenAI-compatible invoker.
func NewClient(config Config, logger ports.Logger) (*Client, error) {
	if config.APIKey == "" {
		return nil, errors.New("api key must not be empty")
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.ReadTimeout <= 0 {
		config.ReadTimeout = 60 * time.Second
	}
	return &Client{
		config: config,
		http: &fasthttp.Client{
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Invoke issues one chat completion call and returns the raw reply text.
func (c *Client) Invoke(ctx context.Context, req ports.ModelRequest) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: req.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", &TransportError{Model: req.Model, Err: err}
	}

	httpReq := fasthttp.AcquireRequest()
	httpResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(httpReq)
	defer fasthttp.ReleaseResponse(httpResp)

	httpReq.SetRequestURI(c.config.BaseURL + "/chat/completions")
	httpReq.Header.SetMethod(fasthttp.MethodPost)
	httpReq.Header.SetContentType("application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	httpReq.SetBody(body)

	deadline := time.Now().Add(c.config.ReadTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	start := time.Now()
	if err := c.http.DoDeadline(httpReq, httpResp, deadline); err != nil {
		c.logger.Warn("Model call failed", "model", req.Model, "error", err)
		return "", &TransportError{Model: req.Model, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return "", &TransportError{Model: req.Model, Err: err}
	}

	status := httpResp.StatusCode()
	var reply chatResponse
	if err := json.Unmarshal(httpResp.Body(), &reply); err != nil {
		return "", &TransportError{Model: req.Model, StatusCode: status, Err: err}
	}
	if status != fasthttp.StatusOK {
		msg := "request failed"
		if reply.Error != nil {
			msg = reply.Error.Message
		}
		c.logger.Warn("Model call rejected",
			"model", req.Model,
			"status", status,
			"message", msg,
		)
		return "", &TransportError{Model: req.Model, StatusCode: status, Err: errors.New(msg)}
	}
	if len(reply.Choices) == 0 {
		return "", &TransportError{Model: req.Model, StatusCode: status, Err: errors.New("empty choices in completion")}
	}

	c.logger.Debug("Model call complete",
		"model", req.Model,
		"duration", time.Since(start),
	)
	return reply.Choices[0].Message.Content, nil
}
