package embedding

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	calls int
}

func (p *countingProvider) Generate(ctx context.Context, text string) (*Response, error) {
	p.calls++
	return &Response{Values: []float64{float64(len(text)), 1}}, nil
}

func TestCachedAvoidsRepeatCalls(t *testing.T) {
	inner := &countingProvider{}
	cached := NewCached(inner, time.Minute)

	first, err := cached.Generate(context.Background(), "hello")
	require.NoError(t, err)
	second, err := cached.Generate(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first, second)

	_, err = cached.Generate(context.Background(), "different")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}
