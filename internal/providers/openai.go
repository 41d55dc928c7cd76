package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/bluecalif/bookforge/internal/retrypolicy"
)

const (
	// OpenAIProviderName identifies this LLMClient implementation.
	OpenAIProviderName = "openai"

	defaultModel       = "gpt-4o-mini"
	defaultTemperature = 0.3
	defaultTimeout     = 60 * time.Second
	defaultMaxAttempts = 3
	defaultBaseDelay   = time.Second
)

// OpenAIConfig holds configuration for the OpenAI chat-completions client.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
	MaxAttempts int
	BaseURL     string       // optional, tests / OpenAI-compatible gateways
	HTTPClient  *http.Client // optional (tests)
}

// OpenAIClient implements LLMClient against the chat-completions endpoint:
// temperature 0.3 by default, structured-output schema enforcement,
// exponential backoff retry composed via retrypolicy.Run.
type OpenAIClient struct {
	model       string
	temperature float64
	timeout     time.Duration
	maxAttempts int
	client      openai.Client
}

// NewOpenAIClient constructs an OpenAIClient from cfg, applying
// defaults for any zero-valued fields.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0), // retries are owned by retrypolicy, not the SDK transport
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		maxAttempts: cfg.MaxAttempts,
		client:      openai.NewClient(opts...),
	}
}

// Name returns the provider identifier.
func (c *OpenAIClient) Name() string {
	return OpenAIProviderName
}

// Chat sends req to the chat-completions endpoint, retrying transient and
// rate-limited failures per retrypolicy, validating and repairing structured
// output once against req.ResponseFormat's schema when set.
func (c *OpenAIClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	if req == nil {
		return nil, fmt.Errorf("chat request is required")
	}

	model := req.Model
	if model == "" {
		model = c.model
	}
	temperature := req.Temperature
	if temperature <= 0 {
		temperature = c.temperature
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}

	start := time.Now()
	messages := toOpenAIMessages(req.Messages)

	var result ChatResult
	attempts := 0

	policy := retrypolicy.Options{MaxAttempts: c.maxAttempts, BaseDelay: defaultBaseDelay}
	repaired := false

	err := retrypolicy.Run(ctx, policy, func(ctx context.Context, attempt int) error {
		attempts = attempt
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		params := openai.ChatCompletionNewParams{
			Model:       openai.ChatModel(model),
			Messages:    messages,
			Temperature: openai.Float(temperature),
		}

		resp, callErr := c.client.Chat.Completions.New(callCtx, params)
		if callErr != nil {
			return classifyOpenAIError(callErr)
		}
		if len(resp.Choices) == 0 {
			return retrypolicy.Classify(retrypolicy.KindTransient, fmt.Errorf("empty completion choices"))
		}

		content := resp.Choices[0].Message.Content
		result.Content = content
		result.PromptTokens = int(resp.Usage.PromptTokens)
		result.CompletionTokens = int(resp.Usage.CompletionTokens)
		result.TotalTokens = int(resp.Usage.TotalTokens)
		result.ModelUsed = string(resp.Model)

		if req.ResponseFormat == nil {
			return nil
		}

		parsed, parseErr := parseStructuredJSON(content)
		if parseErr == nil {
			if valErr := validateStructuredJSON(req.ResponseFormat.Schema, parsed); valErr == nil {
				result.ParsedJSON = parsed
				return nil
			} else if !repaired {
				repaired = true
				messages = append(messages,
					openai.AssistantMessage(content),
					openai.UserMessage(structuredRepairPrompt(req.ResponseFormat.Schema, content, valErr)),
				)
				return retrypolicy.Classify(retrypolicy.KindTransient, valErr)
			} else {
				return retrypolicy.Classify(retrypolicy.KindPermanent, valErr)
			}
		}
		if !repaired {
			repaired = true
			messages = append(messages,
				openai.AssistantMessage(content),
				openai.UserMessage(structuredRepairPrompt(req.ResponseFormat.Schema, content, parseErr)),
			)
			return retrypolicy.Classify(retrypolicy.KindTransient, parseErr)
		}
		return retrypolicy.Classify(retrypolicy.KindPermanent, parseErr)
	})
	if err != nil {
		return nil, err
	}

	result.Provider = OpenAIProviderName
	result.RequestID = req.RequestID
	result.Attempts = attempts
	result.ExecutionTime = time.Since(start)
	return &result, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			out = append(out, openai.SystemMessage(m.Content))
		case "assistant":
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// classifyOpenAIError maps an SDK error into a retrypolicy Kind: 429 is
// rate-limited, 5xx or transport failure is transient, any other 4xx is
// permanent.
func classifyOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		kind := retrypolicy.ClassifyHTTPStatus(apiErr.StatusCode)
		if kind == retrypolicy.KindRateLimited && apiErr.Response != nil {
			if wait := parseRetryAfter(apiErr.Response.Header.Get("Retry-After")); wait > 0 {
				return retrypolicy.Classify(kind, fmt.Errorf("rate limited, retry after %s: %w", wait, err))
			}
		}
		return retrypolicy.Classify(kind, err)
	}
	return retrypolicy.Classify(retrypolicy.KindTransient, err)
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil {
		return time.Duration(secs) * time.Second
	}
	return 0
}

var _ LLMClient = (*OpenAIClient)(nil)
