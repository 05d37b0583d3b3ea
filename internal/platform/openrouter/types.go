// Package openrouter implements a resilient client for an
// OpenRouter-compatible chat-completion HTTP endpoint: retry with
// exponential backoff, per-attempt timeouts, status-code error
// classification, and optional structured-JSON response parsing.
package openrouter

import (
	"encoding/json"
	"time"
)

// Message is a single chat message in the completion request or response.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ModelParams are the generation parameters sent with a request.
// Nil fields fall back to the client's defaults, so a request can
// override individual parameters without restating the rest.
type ModelParams struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"top_p,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
	MaxTokens        *int     `json:"max_tokens,omitempty"`
}

// merge returns a copy of p with nil fields filled from defaults.
func (p ModelParams) merge(defaults ModelParams) ModelParams {
	out := p
	if out.Temperature == nil {
		out.Temperature = defaults.Temperature
	}
	if out.TopP == nil {
		out.TopP = defaults.TopP
	}
	if out.FrequencyPenalty == nil {
		out.FrequencyPenalty = defaults.FrequencyPenalty
	}
	if out.PresencePenalty == nil {
		out.PresencePenalty = defaults.PresencePenalty
	}
	if out.MaxTokens == nil {
		out.MaxTokens = defaults.MaxTokens
	}
	return out
}

// ChatRequest bundles everything that varies per call: model, messages,
// parameters, response mode, and an optional per-attempt timeout
// override. It is a plain value, so one client instance can serve
// concurrent callers without shared mutable state.
type ChatRequest struct {
	// Model is the provider model identifier (e.g. "openai/gpt-4o-mini").
	// Empty falls back to the client's default model.
	Model string

	// SystemMessage is prepended as a system-role message when non-empty.
	SystemMessage string

	// UserMessage is the user-role message. Required.
	UserMessage string

	// JSONMode requests a machine-parseable JSON object response and
	// enables JSON validation of the returned content.
	JSONMode bool

	// Params are merged over the client's default generation parameters.
	Params ModelParams

	// Timeout overrides the client's per-attempt timeout when positive.
	Timeout time.Duration
}

// ChatResult is the parsed outcome of a successful call.
type ChatResult struct {
	// ID is the provider's completion id.
	ID string

	// Model is the model the provider reports having used.
	Model string

	// Content is the raw text of the first choice's message.
	Content string

	// JSON holds the content verified as valid JSON. Set only when the
	// request had JSONMode enabled.
	JSON json.RawMessage

	// FinishReason is the provider's finish reason for the first choice.
	FinishReason string
}

// RequestMetadata captures observability data for one logical Send call,
// covering all of its attempts. A fresh value is returned with every
// call (success or terminal failure); it always reflects that call's
// own last attempt.
type RequestMetadata struct {
	Model            string
	StartedAt        time.Time
	FinishedAt       time.Time
	Duration         time.Duration
	Attempts         int
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Success          bool
	ErrorCode        ErrorCode
	ErrorMessage     string
}

// chatCompletionRequest is the wire format of the request payload.
type chatCompletionRequest struct {
	Model            string          `json:"model"`
	Messages         []Message       `json:"messages"`
	Temperature      *float64        `json:"temperature,omitempty"`
	TopP             *float64        `json:"top_p,omitempty"`
	FrequencyPenalty *float64        `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64        `json:"presence_penalty,omitempty"`
	MaxTokens        *int            `json:"max_tokens,omitempty"`
	ResponseFormat   *responseFormat `json:"response_format,omitempty"`
}

// responseFormat asks the provider for a structured response.
type responseFormat struct {
	Type string `json:"type"`
}

// chatCompletionResponse is the wire format of the response body.
type chatCompletionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
	Usage   *usage   `json:"usage"`
}

type choice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
