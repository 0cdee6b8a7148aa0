package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-news/internal/llm"
	"github.com/jonathan/career-news/internal/llm/llmtest"
	"github.com/jonathan/career-news/internal/types"
)

func jsonAnswer(s string) *llmtest.MockClient {
	return &llmtest.MockClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return s, nil
		},
	}
}

func TestAnalyze_Valid(t *testing.T) {
	client := jsonAnswer(`{"summary":"OO기업이 신입 공채를 시작했다. 백엔드 개발자 10명을 뽑는다. 지원은 다음 달까지다.","sentiment":"positive","trust_score":82,"bias_detected":false,"bias_type":"","category":"IT"}`)
	a := NewAnalyzer(client, nil)

	got, err := a.Analyze(context.Background(), "OO기업, 백엔드 개발자 10명 신입 공채", "본문")
	require.NoError(t, err)

	assert.Equal(t, types.SentimentPositive, got.Sentiment)
	assert.Equal(t, 82, got.TrustScore)
	assert.Equal(t, types.CategoryIT, got.Category)
	assert.False(t, got.BiasDetected)
	assert.Len(t, SplitSentences(got.Summary), 3)

	calls := client.JSONCalls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0], "OO기업, 백엔드 개발자 10명 신입 공채")
}

func TestAnalyze_TrimsToThreeSentences(t *testing.T) {
	client := jsonAnswer("```json\n" + `{"summary":"하나. 둘! 셋? 넷. 다섯.","sentiment":"neutral","trust_score":50,"bias_detected":true,"bias_type":"political","category":"politics"}` + "\n```")
	got, err := NewAnalyzer(client, nil).Analyze(context.Background(), "t", "c")
	require.NoError(t, err)

	assert.Equal(t, "하나. 둘! 셋?", got.Summary)
	assert.True(t, got.BiasDetected)
	assert.Equal(t, "political", got.BiasType)
}

func TestAnalyze_ContractViolations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed json", `{"summary": "하나.", "sentiment": `},
		{"not json", `I cannot analyze this article.`},
		{"trust score out of range", `{"summary":"하나.","sentiment":"neutral","trust_score":140,"bias_detected":false,"category":"IT"}`},
		{"unknown sentiment", `{"summary":"하나.","sentiment":"furious","trust_score":40,"bias_detected":false,"category":"IT"}`},
		{"unknown category", `{"summary":"하나.","sentiment":"neutral","trust_score":40,"bias_detected":false,"category":"sports"}`},
		{"missing field", `{"summary":"하나.","sentiment":"neutral","trust_score":40,"category":"IT"}`},
		{"blank summary", `{"summary":"   ","sentiment":"neutral","trust_score":40,"bias_detected":false,"category":"IT"}`},
		{"one sentence summary", `{"summary":"한 문장뿐이다.","sentiment":"neutral","trust_score":40,"bias_detected":false,"category":"IT"}`},
		{"two sentence summary", `{"summary":"하나. 둘.","sentiment":"neutral","trust_score":40,"bias_detected":false,"category":"IT"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAnalyzer(jsonAnswer(tt.raw), nil).Analyze(context.Background(), "t", "c")
			require.Error(t, err)

			var perr *llm.ParseError
			assert.True(t, errors.As(err, &perr), "got %T: %v", err, err)
		})
	}
}

func TestAnalyze_BlankSummaryIsErrEmptySummary(t *testing.T) {
	raw := `{"summary":"   ","sentiment":"neutral","trust_score":40,"bias_detected":false,"category":"IT"}`
	_, err := NewAnalyzer(jsonAnswer(raw), nil).Analyze(context.Background(), "t", "c")
	assert.ErrorIs(t, err, ErrEmptySummary)
}

func TestAnalyze_ModelError(t *testing.T) {
	client := &llmtest.MockClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return "", errors.New("deadline exceeded")
		},
	}
	_, err := NewAnalyzer(client, nil).Analyze(context.Background(), "t", "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis call failed")
}

func TestAnalyze_BiasTypeIgnoredWithoutBias(t *testing.T) {
	raw := `{"summary":"하나. 둘. 셋.","sentiment":"neutral","trust_score":40,"bias_detected":false,"bias_type":"economic","category":"economy"}`
	got, err := NewAnalyzer(jsonAnswer(raw), nil).Analyze(context.Background(), "t", "c")
	require.NoError(t, err)
	assert.Empty(t, got.BiasType)
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"korean", "채용이 늘었다. 경쟁도 치열하다.", []string{"채용이 늘었다.", "경쟁도 치열하다."}},
		{"decimal kept", "실업률이 3.5%로 낮아졌다. 고용은 늘었다.", []string{"실업률이 3.5%로 낮아졌다.", "고용은 늘었다."}},
		{"quote closes sentence", `그는 "채용을 늘린다." 고 했다. 끝.`, []string{`그는 "채용을 늘린다."`, "고 했다.", "끝."}},
		{"ellipsis", "기다려라... 곧 온다.", []string{"기다려라...", "곧 온다."}},
		{"no terminal", "마침표 없는 문장", []string{"마침표 없는 문장"}},
		{"blank", "  ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.in))
		})
	}
}

func TestNormalizeSummary(t *testing.T) {
	got, err := NormalizeSummary("하나. 둘. 셋. 넷.", SummarySentences)
	require.NoError(t, err)
	assert.Equal(t, "하나. 둘. 셋.", got)

	_, err = NormalizeSummary("하나. 둘.", SummarySentences)
	assert.ErrorIs(t, err, ErrShortSummary)

	_, err = NormalizeSummary("", SummarySentences)
	assert.ErrorIs(t, err, ErrEmptySummary)
}
