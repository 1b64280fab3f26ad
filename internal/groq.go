package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// groqBaseURL is Groq's OpenAI-compatible endpoint; the official OpenAI SDK
// is pointed at it instead of carrying a second client library.
const groqBaseURL = "https://api.groq.com/openai/v1"

// DefaultModel is the model used for all five stages unless overridden.
const DefaultModel = "llama-3.3-70b-versatile"

// defaultTemperature matches the pipeline's tuned sampling temperature.
const defaultTemperature = 0.6

// Generator is the single operation the pipeline needs from the inference
// service: prompt in, bounded text out.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// GroqClientInterface defines the chat-completion operation so tests can
// substitute the SDK.
type GroqClientInterface interface {
	CreateChatCompletion(ctx context.Context, model, prompt string, maxTokens int, temperature float64) (string, error)
}

// GroqClient wraps the official OpenAI Go SDK against Groq's endpoint.
type GroqClient struct {
	client *openai.Client
}

// NewGroqClient creates a new Groq API client.
func NewGroqClient(apiKey string) *GroqClient {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(groqBaseURL),
	)
	return &GroqClient{client: &client}
}

// CreateChatCompletion implements the chat completion call. Rate-limit
// rejections are classified here, at the point of detection.
func (c *GroqClient) CreateChatCompletion(ctx context.Context, model, prompt string, maxTokens int, temperature float64) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(temperature),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", classifyAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices from Groq")
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyAPIError maps SDK failures onto the pipeline taxonomy.
func classifyAPIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Message)
		case http.StatusUnauthorized:
			return fmt.Errorf("invalid API key - check GROQ_API_KEY: %s", apiErr.Message)
		}
		return fmt.Errorf("inference service error (%d): %s", apiErr.StatusCode, apiErr.Message)
	}
	return err
}

// AI drives generation calls for the pipeline. The underlying client is
// created lazily so commands that never generate don't need an API key.
type AI struct {
	client      GroqClientInterface
	model       string
	temperature float64
	timeout     time.Duration
	verbose     bool
	apiKey      string
	clientOnce  sync.Once
}

// NewAI creates an AI processor around an existing client.
func NewAI(client GroqClientInterface, model string, timeout time.Duration, verbose bool) *AI {
	return &AI{
		client:      client,
		model:       model,
		temperature: defaultTemperature,
		timeout:     timeout,
		verbose:     verbose,
	}
}

// NewAIWithKey creates an AI processor with lazy client initialization.
func NewAIWithKey(apiKey, model string, timeout time.Duration, verbose bool) *AI {
	return &AI{
		model:       model,
		temperature: defaultTemperature,
		timeout:     timeout,
		verbose:     verbose,
		apiKey:      apiKey,
	}
}

// ensureClient initializes the Groq client if needed.
func (ai *AI) ensureClient() error {
	if ai.client != nil {
		return nil
	}
	if ai.apiKey == "" {
		return ValidateGroqAPIKey("")
	}
	ai.clientOnce.Do(func() {
		ai.client = NewGroqClient(ai.apiKey)
	})
	return nil
}

// Generate performs one bounded generation call.
func (ai *AI) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if err := ai.ensureClient(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, ai.timeout)
	defer cancel()

	if ai.verbose {
		fmt.Printf("Generating with %s (prompt ~%d tokens, ceiling %d)\n", ai.model, EstimateTokens(prompt), maxTokens)
	}

	content, err := ai.client.CreateChatCompletion(ctx, ai.model, prompt, maxTokens, ai.temperature)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyStageOutput
	}
	return content, nil
}
