package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bluecalif/bookforge/internal/retrypolicy"
)

func TestToOpenAIMessagesPreservesOrder(t *testing.T) {
	msgs := toOpenAIMessages([]Message{
		{Role: "system", Content: "sys"},
		{Role: "user", Content: "usr"},
		{Role: "assistant", Content: "asst"},
	})
	require.Len(t, msgs, 3)
}

func TestParseRetryAfterParsesSeconds(t *testing.T) {
	require.Equal(t, 5*time.Second, parseRetryAfter("5"))
	require.Equal(t, time.Duration(0), parseRetryAfter(""))
	require.Equal(t, time.Duration(0), parseRetryAfter("not-a-number"))
}

func TestNewOpenAIClientAppliesDefaults(t *testing.T) {
	c := NewOpenAIClient(OpenAIConfig{APIKey: "test-key"})
	require.Equal(t, defaultModel, c.model)
	require.Equal(t, defaultTemperature, c.temperature)
	require.Equal(t, defaultTimeout, c.timeout)
	require.Equal(t, defaultMaxAttempts, c.maxAttempts)
	require.Equal(t, OpenAIProviderName, c.Name())
}

func TestNewOpenAIClientHonorsExplicitConfig(t *testing.T) {
	c := NewOpenAIClient(OpenAIConfig{
		APIKey:      "test-key",
		Model:       "gpt-4o",
		Temperature: 0.9,
		Timeout:     10 * time.Second,
		MaxAttempts: 5,
	})
	require.Equal(t, "gpt-4o", c.model)
	require.Equal(t, 0.9, c.temperature)
	require.Equal(t, 10*time.Second, c.timeout)
	require.Equal(t, 5, c.maxAttempts)
}

func TestClassifyOpenAIErrorFallsBackToTransientForUnrecognizedError(t *testing.T) {
	err := classifyOpenAIError(errInternal("transport reset"))
	require.Equal(t, retrypolicy.KindTransient, retrypolicy.KindOf(err))
}

type errInternal string

func (e errInternal) Error() string { return string(e) }
