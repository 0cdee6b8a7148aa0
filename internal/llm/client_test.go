package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deadlineClient struct {
	sawDeadline bool
}

func (d *deadlineClient) GenerateContent(ctx context.Context, _ string, _ ModelTier) (string, error) {
	_, d.sawDeadline = ctx.Deadline()
	return "true", nil
}

func (d *deadlineClient) GenerateJSON(ctx context.Context, _ string, _ ModelTier) (string, error) {
	_, d.sawDeadline = ctx.Deadline()
	return "{}", nil
}

func (d *deadlineClient) GetModel(ModelTier) string { return "stub" }
func (d *deadlineClient) Close() error              { return nil }

func TestWithTimeout_SetsDeadline(t *testing.T) {
	inner := &deadlineClient{}
	c := WithTimeout(inner, time.Second)

	_, err := c.GenerateContent(context.Background(), "p", TierLite)
	require.NoError(t, err)
	assert.True(t, inner.sawDeadline)

	inner.sawDeadline = false
	_, err = c.GenerateJSON(context.Background(), "p", TierStandard)
	require.NoError(t, err)
	assert.True(t, inner.sawDeadline)
	assert.Equal(t, "stub", c.GetModel(TierLite))
}

func TestWithTimeout_Disabled(t *testing.T) {
	inner := &deadlineClient{}
	assert.Same(t, Client(inner), WithTimeout(inner, 0))
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), DefaultConfig(), "")
	assert.Error(t, err)
}

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{Provider: "other"}, "key")
	assert.Error(t, err)
}
