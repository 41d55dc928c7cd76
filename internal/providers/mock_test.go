package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMockClientReturnsScriptedResponses(t *testing.T) {
	m := &MockClient{Responses: []MockResponse{
		{Result: &ChatResult{Content: "first"}},
		{Result: &ChatResult{Content: "second"}},
	}}

	r1, err := m.Chat(context.Background(), &ChatRequest{RequestID: "a"})
	require.NoError(t, err)
	require.Equal(t, "first", r1.Content)
	require.Equal(t, "a", r1.RequestID)

	r2, err := m.Chat(context.Background(), &ChatRequest{RequestID: "b"})
	require.NoError(t, err)
	require.Equal(t, "second", r2.Content)

	r3, err := m.Chat(context.Background(), &ChatRequest{})
	require.NoError(t, err)
	require.Equal(t, "second", r3.Content, "last scripted response repeats once exhausted")

	require.Equal(t, 3, m.Calls())
}

func TestMockClientPropagatesScriptedError(t *testing.T) {
	wantErr := errors.New("boom")
	m := &MockClient{Responses: []MockResponse{{Err: wantErr}}}

	_, err := m.Chat(context.Background(), &ChatRequest{})
	require.ErrorIs(t, err, wantErr)
}

func TestMockClientErrorsWithNoResponsesConfigured(t *testing.T) {
	m := &MockClient{}
	_, err := m.Chat(context.Background(), &ChatRequest{})
	require.Error(t, err)
}
