package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-news/internal/llm"
	"github.com/jonathan/career-news/internal/types"
)

func TestExtract_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		client := jsonAnswer(`[{"keyword":"x"}]`)
		tags, err := NewKeywordExtractor(client, nil).Extract(context.Background(), in)

		require.NoError(t, err)
		assert.NotNil(t, tags)
		assert.Empty(t, tags)
		assert.Zero(t, client.TotalCalls())
	}
}

func TestExtract_CleansTags(t *testing.T) {
	raw := `[
		{"keyword":"백엔드 개발자","type":"role","importance_score":0.9},
		{"keyword":"  ","type":"skill","importance_score":0.4},
		{"keyword":"Go","type":"SKILL","importance_score":1.7},
		{"keyword":"go","type":"skill","importance_score":0.2},
		{"keyword":"IT 산업","type":"sector","importance_score":-0.3},
		{"keyword":"신입 공채","importance_score":null}
	]`
	tags, err := NewKeywordExtractor(jsonAnswer(raw), nil).Extract(context.Background(), "요약")
	require.NoError(t, err)

	want := []types.KeywordTag{
		{Keyword: "백엔드 개발자", Type: types.KeywordTypeRole, ImportanceScore: 0.9},
		{Keyword: "Go", Type: types.KeywordTypeSkill, ImportanceScore: 1},
		{Keyword: "IT 산업", Type: types.KeywordTypeOther, ImportanceScore: 0},
		{Keyword: "신입 공채", Type: types.KeywordTypeOther, ImportanceScore: DefaultImportance},
	}
	assert.Equal(t, want, tags)
	for _, tag := range tags {
		assert.NoError(t, tag.Validate())
	}
}

func TestExtract_CapsAtFive(t *testing.T) {
	raw := `[{"keyword":"a"},{"keyword":"b"},{"keyword":"c"},{"keyword":"d"},{"keyword":"e"},{"keyword":"f"},{"keyword":"g"}]`
	tags, err := NewKeywordExtractor(jsonAnswer(raw), nil).Extract(context.Background(), "요약")
	require.NoError(t, err)
	assert.Len(t, tags, types.MaxKeywordTags)
	assert.Equal(t, "e", tags[4].Keyword)
}

func TestExtract_PlainStringList(t *testing.T) {
	tags, err := NewKeywordExtractor(jsonAnswer(`["채용", "백엔드"]`), nil).Extract(context.Background(), "요약")
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, types.KeywordTypeOther, tags[0].Type)
}

func TestExtract_BoundsForNonEmptyInput(t *testing.T) {
	answers := []string{
		`[{"keyword":"a"}]`,
		`[{"keyword":"a"},{"keyword":"b"},{"keyword":"c"}]`,
		`[{"keyword":"1"},{"keyword":"2"},{"keyword":"3"},{"keyword":"4"},{"keyword":"5"},{"keyword":"6"},{"keyword":"7"},{"keyword":"8"}]`,
	}
	for _, raw := range answers {
		tags, err := NewKeywordExtractor(jsonAnswer(raw), nil).Extract(context.Background(), "요약")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(tags), 1)
		assert.LessOrEqual(t, len(tags), types.MaxKeywordTags)
	}
}

func TestExtract_Failures(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		sentinel error
	}{
		{name: "malformed", raw: `[{"keyword": "a"`},
		{name: "object instead of array", raw: `{"keyword":"a"}`},
		{name: "empty array", raw: `[]`, sentinel: ErrNoKeywords},
		{name: "only blanks", raw: `[{"keyword":" "},{"keyword":""}]`, sentinel: ErrNoKeywords},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKeywordExtractor(jsonAnswer(tt.raw), nil).Extract(context.Background(), "요약")
			require.Error(t, err)

			var perr *llm.ParseError
			assert.True(t, errors.As(err, &perr))
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
		})
	}
}
