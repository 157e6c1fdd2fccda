package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/llm-chat-client/internal/chat/types"
)

func fastConfig() *types.Config {
	return &types.Config{
		Timeout:        2 * time.Second,
		MaxRetries:     3,
		RetryDelay:     10 * time.Millisecond,
		TemperatureMax: 2.0,
		MaxTokensCap:   32000,
	}
}

func replyBody(content string) string {
	return `{"id":"cmpl-1","object":"chat.completion","created":1700000000,"model":"test-model",` +
		`"choices":[{"index":0,"message":{"role":"assistant","content":"` + content + `"},"finish_reason":"stop"}],` +
		`"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`
}

func TestComplete_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(replyBody("hello")))
	}))
	defer srv.Close()

	cli := newTestClient(t, fastConfig())
	p := validParams()
	p.BaseURL = srv.URL

	text, err := cli.Complete(context.Background(), p, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestComplete_RequestShape(t *testing.T) {
	var got types.ChatCompletionRequest
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(replyBody("ok")))
	}))
	defer srv.Close()

	cli := newTestClient(t, fastConfig())

	p := validParams()
	p.BaseURL = srv.URL
	p.SystemPrompt = "You are terse."
	p.APIKey = "sk-test"
	p.UserPrompt = "third question"

	hist := []types.Message{
		{Role: types.RoleUser, Content: "first question"},
		{Role: types.RoleAssistant, Content: "first answer"},
	}

	_, err := cli.Complete(context.Background(), p, hist)
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, 0.7, got.Temperature)
	assert.Equal(t, 2000, got.MaxTokens)

	require.Len(t, got.Messages, 4)
	assert.Equal(t, types.RoleSystem, got.Messages[0].Role)
	assert.Equal(t, "You are terse.", got.Messages[0].Content)
	assert.Equal(t, "first question", got.Messages[1].Content)
	assert.Equal(t, types.RoleAssistant, got.Messages[2].Role)
	assert.Equal(t, "third question", got.Messages[3].Content)
}

func TestComplete_DefaultSystemPrompt(t *testing.T) {
	var got types.ChatCompletionRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(replyBody("ok")))
	}))
	defer srv.Close()

	cli := newTestClient(t, fastConfig())
	p := validParams()
	p.BaseURL = srv.URL
	p.SystemPrompt = "   "

	_, err := cli.Complete(context.Background(), p, nil)
	require.NoError(t, err)

	require.NotEmpty(t, got.Messages)
	assert.Equal(t, types.RoleSystem, got.Messages[0].Role)
	assert.Contains(t, got.Messages[0].Content, time.Now().Format("2006-01-02"))
}

func TestComplete_NoAuthHeaderWithoutKey(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte(replyBody("ok")))
	}))
	defer srv.Close()

	cli := newTestClient(t, fastConfig())
	p := validParams()
	p.BaseURL = srv.URL

	_, err := cli.Complete(context.Background(), p, nil)
	require.NoError(t, err)
	assert.Empty(t, auth)
}

func TestComplete_FormatErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "empty choices", body: `{"choices":[]}`, wantMsg: "choices"},
		{name: "missing choices", body: `{"object":"chat.completion"}`, wantMsg: "choices"},
		{name: "choices not an array", body: `{"choices":"nope"}`, wantMsg: "choices"},
		{name: "missing message content", body: `{"choices":[{"index":0,"finish_reason":"stop"}]}`, wantMsg: "message.content"},
		{name: "missing content", body: `{"choices":[{"message":{"role":"assistant"}}]}`, wantMsg: "message.content"},
		{name: "not json", body: `<html>gateway error</html>`, wantMsg: "JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			cli := newTestClient(t, fastConfig())
			p := validParams()
			p.BaseURL = srv.URL

			_, err := cli.Complete(context.Background(), p, nil)

			var ce *types.ClientError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, types.ErrorKindFormat, ce.Kind)
			assert.Contains(t, ce.Message, tt.wantMsg)

			// format errors are not transient, exactly one request
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestComplete_ProtocolErrorExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	cli := newTestClient(t, fastConfig())
	p := validParams()
	p.BaseURL = srv.URL

	_, err := cli.Complete(context.Background(), p, nil)

	var ce *types.ClientError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, types.ErrorKindProtocol, ce.Kind)
	assert.Equal(t, http.StatusInternalServerError, ce.StatusCode)
	assert.Contains(t, ce.Message, "boom")
	assert.Equal(t, int32(3), calls.Load())
}

func TestComplete_RecoversWithinRetryBudget(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(replyBody("finally")))
	}))
	defer srv.Close()

	cli := newTestClient(t, fastConfig())
	p := validParams()
	p.BaseURL = srv.URL

	text, err := cli.Complete(context.Background(), p, nil)
	require.NoError(t, err)
	assert.Equal(t, "finally", text)
	assert.Equal(t, int32(3), calls.Load())
}

func TestComplete_TimeoutExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := fastConfig()
	cfg.Timeout = 50 * time.Millisecond

	cli := newTestClient(t, cfg)
	p := validParams()
	p.BaseURL = srv.URL

	_, err := cli.Complete(context.Background(), p, nil)

	var ce *types.ClientError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, types.ErrorKindTransport, ce.Kind)
	assert.Contains(t, ce.Message, "timed out")
	assert.Equal(t, int32(3), calls.Load())
}

func TestComplete_ConnectionRefused(t *testing.T) {
	cfg := fastConfig()
	cli := newTestClient(t, cfg)

	p := validParams()
	// nothing listens here
	p.BaseURL = "http://localhost:1/v1/chat/completions"

	_, err := cli.Complete(context.Background(), p, nil)

	var ce *types.ClientError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, types.ErrorKindTransport, ce.Kind)
}

func TestComplete_ValidationShortCircuits(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(replyBody("ok")))
	}))
	defer srv.Close()

	cli := newTestClient(t, fastConfig())
	p := validParams()
	p.BaseURL = srv.URL
	p.UserPrompt = "   "

	_, err := cli.Complete(context.Background(), p, nil)

	var ce *types.ClientError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, types.ErrorKindValidation, ce.Kind)
	assert.Equal(t, int32(0), calls.Load(), "validation failures must not hit the network")
}

func TestComplete_CancelDuringRetryWait(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := fastConfig()
	cfg.RetryDelay = 5 * time.Second

	cli := newTestClient(t, cfg)
	p := validParams()
	p.BaseURL = srv.URL

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := cli.Complete(ctx, p, nil)

	var ce *types.ClientError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, types.ErrorKindTransport, ce.Kind)
	assert.Contains(t, ce.Message, "cancelled")
	assert.Equal(t, int32(1), calls.Load())
	assert.Less(t, time.Since(start), time.Second, "cancellation must abort the retry wait")
}

func TestNew_ConfigDefaults(t *testing.T) {
	cli := newTestClient(t, &types.Config{})

	assert.Equal(t, 60*time.Second, cli.config.Timeout)
	assert.Equal(t, 3, cli.config.MaxRetries)
	assert.Equal(t, 2*time.Second, cli.config.RetryDelay)
	assert.Equal(t, 2.0, cli.config.TemperatureMax)
	assert.Equal(t, 32000, cli.config.MaxTokensCap)
}
