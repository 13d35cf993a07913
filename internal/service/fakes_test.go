package service

import (
	"context"
	"fmt"

	"market-insights-be/internal/dto"
	"market-insights-be/pkg/embedding"
	"market-insights-be/pkg/llm"
	"market-insights-be/pkg/vectormath"
)

// fakeEmbedder maps known texts to fixed vectors so similarity is
// predictable in tests. failErr makes every call fail; failOnCall limits the
// failure to that single call number to simulate a transient outage.
type fakeEmbedder struct {
	vectors    map[string][]float64
	failErr    error
	failOnCall int
	calls      int
}

func (f *fakeEmbedder) Generate(_ context.Context, text string) (*embedding.Response, error) {
	f.calls++
	if f.failErr != nil && (f.failOnCall == 0 || f.calls == f.failOnCall) {
		return nil, f.failErr
	}
	if v, ok := f.vectors[text]; ok {
		return &embedding.Response{Values: v, Model: "fake"}, nil
	}
	// Unknown text gets a default direction so Add never fails on dimension.
	return &embedding.Response{Values: vectormath.NormalizeVector([]float64{1, 1, 1}), Model: "fake"}, nil
}

type fakeLLM struct {
	reply   string
	failErr error
	// last captured call
	history []llm.Message
	// final user message of every call, in order
	userPrompts []string
	calls       int
}

func (f *fakeLLM) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	f.calls++
	f.history = history
	if len(history) > 0 {
		f.userPrompts = append(f.userPrompts, history[len(history)-1].Content)
	}
	if f.failErr != nil {
		return "", f.failErr
	}
	if f.reply != "" {
		return f.reply, nil
	}
	return fmt.Sprintf("reply %d", f.calls), nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

type fakePublisher struct {
	published []dto.PublishIngestMessage
	failErr   error
}

func (f *fakePublisher) PublishIngestDocument(payload dto.PublishIngestMessage) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.published = append(f.published, payload)
	return nil
}

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }
