package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Default client policy. Shared, immutable after construction.
const (
	DefaultTimeout        = 60 * time.Second
	DefaultMaxRetries     = 3
	DefaultRetryBaseDelay = 1 * time.Second
)

// chatCompletionsPath is the endpoint path relative to the base URL.
const chatCompletionsPath = "/chat/completions"

// Config holds the client's shared configuration: credential, endpoint,
// and retry/timeout policy. All fields are read-only after NewClient,
// so one client is safe for concurrent use.
type Config struct {
	// APIKey is the bearer credential. Required.
	APIKey string

	// BaseURL is the provider's API root (e.g. "https://openrouter.ai/api/v1").
	BaseURL string

	// DefaultModel is used when a ChatRequest does not name a model.
	DefaultModel string

	// Timeout is the per-attempt timeout. Zero means DefaultTimeout.
	Timeout time.Duration

	// MaxRetries is the number of re-attempts after the first try.
	// Negative means DefaultMaxRetries.
	MaxRetries int

	// RetryBaseDelay is the base of the exponential backoff
	// (delay = base * 2^attempt). Zero means DefaultRetryBaseDelay.
	RetryBaseDelay time.Duration

	// DefaultParams are the generation parameters used when a request
	// does not override them.
	DefaultParams ModelParams

	// AppURL and AppName populate the provider's analytics headers
	// (HTTP-Referer and X-Title). Optional.
	AppURL  string
	AppName string
}

// Client calls an OpenRouter-compatible chat-completion endpoint.
// Construct once and share; per-call state travels in ChatRequest and
// comes back in ChatResult/RequestMetadata.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client with the given configuration.
// Returns a MISSING_API_KEY error when no credential is configured.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, newError(ErrCodeMissingAPIKey, 0, "API key is required", nil, false)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = DefaultRetryBaseDelay
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		cfg: cfg,
		// The per-attempt deadline is enforced via context, not the
		// http.Client timeout, so a request-level override can shorten
		// or extend it per call.
		httpClient: &http.Client{},
		logger:     logger.With(slog.String("component", "openrouter_client")),
	}, nil
}

// Send executes one logical chat-completion request, retrying retryable
// failures with exponential backoff up to the configured maximum.
//
// The returned RequestMetadata is non-nil on both success and failure
// and describes this call only; concurrent Send calls never share it.
func (c *Client) Send(ctx context.Context, req ChatRequest) (*ChatResult, *RequestMetadata, error) {
	model := req.Model
	if model == "" {
		model = c.cfg.DefaultModel
	}

	meta := &RequestMetadata{
		Model:     model,
		StartedAt: time.Now().UTC(),
	}

	if req.UserMessage == "" {
		err := newError(ErrCodeMissingUserMessage, 0, "user message is required", nil, false)
		return nil, c.finish(meta, err), err
	}

	payload := c.buildPayload(model, req)

	timeout := c.cfg.Timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}

	var lastErr *Error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		meta.Attempts = attempt + 1

		c.logger.DebugContext(ctx, "sending chat completion request",
			slog.String("model", model),
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", c.cfg.MaxRetries+1))

		resp, attemptErr := c.doAttempt(ctx, payload, timeout)
		if attemptErr == nil {
			result, parseErr := c.parseResponse(resp, req.JSONMode)
			if parseErr != nil {
				// Response-shape failures are terminal: the provider
				// answered, retrying will not improve the answer.
				return nil, c.finish(meta, parseErr), parseErr
			}

			if resp.Usage != nil {
				meta.PromptTokens = resp.Usage.PromptTokens
				meta.CompletionTokens = resp.Usage.CompletionTokens
				meta.TotalTokens = resp.Usage.TotalTokens
			}
			meta.Success = true
			c.finish(meta, nil)

			c.logger.DebugContext(ctx, "chat completion succeeded",
				slog.String("model", model),
				slog.Int("attempts", meta.Attempts),
				slog.Int("total_tokens", meta.TotalTokens),
				slog.Duration("duration", meta.Duration))

			return result, meta, nil
		}

		lastErr = attemptErr

		c.logger.WarnContext(ctx, "chat completion attempt failed",
			slog.String("model", model),
			slog.Int("attempt", attempt+1),
			slog.String("error_code", string(attemptErr.Code)),
			slog.Bool("retryable", attemptErr.Retryable),
			slog.String("error", attemptErr.Error()))

		if !attemptErr.Retryable || attempt >= c.cfg.MaxRetries {
			return nil, c.finish(meta, attemptErr), attemptErr
		}

		// delay = base * 2^attempt
		delay := c.cfg.RetryBaseDelay << uint(attempt)
		c.logger.DebugContext(ctx, "backing off before retry",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			err := newError(ErrCodeRequestFailed, 0, "request cancelled during backoff", ctx.Err(), false)
			return nil, c.finish(meta, err), err
		}
	}

	// Unreachable while the loop returns on the final attempt; kept as
	// the generic fallback the contract promises.
	if lastErr == nil {
		lastErr = newError(ErrCodeRequestFailed, 0,
			fmt.Sprintf("request failed after %d attempts", meta.Attempts), nil, false)
	}
	return nil, c.finish(meta, lastErr), lastErr
}

// buildPayload assembles the wire request: optional system message, the
// user message, merged generation parameters, and the structured-response
// flag when JSON mode is enabled.
func (c *Client) buildPayload(model string, req ChatRequest) chatCompletionRequest {
	messages := make([]Message, 0, 2)
	if req.SystemMessage != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: req.SystemMessage})
	}
	messages = append(messages, Message{Role: RoleUser, Content: req.UserMessage})

	params := req.Params.merge(c.cfg.DefaultParams)

	payload := chatCompletionRequest{
		Model:            model,
		Messages:         messages,
		Temperature:      params.Temperature,
		TopP:             params.TopP,
		FrequencyPenalty: params.FrequencyPenalty,
		PresencePenalty:  params.PresencePenalty,
		MaxTokens:        params.MaxTokens,
	}

	if req.JSONMode {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	return payload
}

// doAttempt issues a single HTTP call with a hard per-attempt deadline
// and classifies any failure.
func (c *Client) doAttempt(
	ctx context.Context,
	payload chatCompletionRequest,
	timeout time.Duration,
) (*chatCompletionResponse, *Error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, newError(ErrCodeRequestFailed, 0, "failed to encode request payload", err, false)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(
		attemptCtx,
		http.MethodPost,
		c.cfg.BaseURL+chatCompletionsPath,
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, newError(ErrCodeRequestFailed, 0, "failed to build HTTP request", err, false)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	// Provider analytics headers.
	if c.cfg.AppURL != "" {
		httpReq.Header.Set("HTTP-Referer", c.cfg.AppURL)
	}
	if c.cfg.AppName != "" {
		httpReq.Header.Set("X-Title", c.cfg.AppName)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || attemptCtx.Err() == context.DeadlineExceeded {
			return nil, newError(ErrCodeTimeout, 0,
				fmt.Sprintf("request timed out after %s", timeout), err, true)
		}
		if errors.Is(err, context.Canceled) {
			return nil, newError(ErrCodeRequestFailed, 0, "request cancelled", err, false)
		}
		return nil, newError(ErrCodeNetwork, 0, "network error during request", err, true)
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, newError(ErrCodeNetwork, httpResp.StatusCode, "failed to read response body", err, true)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		clientErr := classifyStatus(httpResp.StatusCode)
		if msg := extractProviderError(respBody); msg != "" {
			clientErr.Err = errors.New(msg)
		}
		return nil, clientErr
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, newError(ErrCodeInvalidResponse, httpResp.StatusCode,
			"response body is not a valid completion object", err, false)
	}

	return &parsed, nil
}

// parseResponse validates the completion and extracts its content.
// When jsonMode is set the content must itself decode as JSON.
func (c *Client) parseResponse(resp *chatCompletionResponse, jsonMode bool) (*ChatResult, *Error) {
	if len(resp.Choices) == 0 {
		return nil, newError(ErrCodeInvalidResponse, 0, "response contains no choices", nil, false)
	}

	first := resp.Choices[0]
	if first.Message.Content == "" {
		return nil, newError(ErrCodeEmptyResponse, 0, "response message content is empty", nil, false)
	}

	result := &ChatResult{
		ID:           resp.ID,
		Model:        resp.Model,
		Content:      first.Message.Content,
		FinishReason: first.FinishReason,
	}

	if jsonMode {
		var raw json.RawMessage
		if err := json.Unmarshal([]byte(first.Message.Content), &raw); err != nil {
			return nil, newError(ErrCodeJSONParse, 0,
				"structured response is not valid JSON", err, false)
		}
		result.JSON = raw
	}

	return result, nil
}

// finish stamps the metadata's end time, duration, and failure fields.
// Returns meta for convenience.
func (c *Client) finish(meta *RequestMetadata, err *Error) *RequestMetadata {
	meta.FinishedAt = time.Now().UTC()
	meta.Duration = meta.FinishedAt.Sub(meta.StartedAt)
	if err != nil {
		meta.ErrorCode = err.Code
		meta.ErrorMessage = err.Message
	}
	return meta
}

// providerErrorBody matches the error envelope OpenRouter-compatible
// providers return on failures.
type providerErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// extractProviderError pulls a human-readable message out of an error
// response body, if one is present.
func extractProviderError(body []byte) string {
	var parsed providerErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return parsed.Error.Message
}
