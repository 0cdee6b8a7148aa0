package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-news/internal/analysis"
	"github.com/jonathan/career-news/internal/ratelimit"
	"github.com/jonathan/career-news/internal/relevance"
	"github.com/jonathan/career-news/internal/types"
)

func TestRunMany_IndependentOwnersShareStore(t *testing.T) {
	model := &scriptedModel{}
	client := model.client()
	store := NewMemoryStore()
	orch, err := New(Components{
		Keywords: staticKeywords{"채용"},
		Fetcher: &fakeFetcher{results: map[string][]types.CandidateArticle{
			"채용": {candidate(1), candidate(2)},
		}},
		Gate:        relevance.New(client, relevance.Config{}, nil),
		Analyzer:    analysis.NewAnalyzer(client, nil),
		Neutralizer: analysis.NewNeutralizer(client, nil),
		Extractor:   analysis.NewKeywordExtractor(client, nil),
		Store:       store,
		Limiter:     ratelimit.Noop{},
	}, Options{}, nil)
	require.NoError(t, err)

	jobs := make([]Job, 6)
	for i := range jobs {
		jobs[i] = Job{
			OwnerID:         fmt.Sprintf("owner-%d", i),
			Profile:         types.JobProfile{JobGroup: "개발"},
			LimitPerKeyword: 10,
		}
	}

	reports, err := orch.RunMany(context.Background(), jobs, 3)
	require.NoError(t, err)
	require.Len(t, reports, len(jobs))

	for i, rep := range reports {
		require.NotNil(t, rep)
		assert.Equal(t, jobs[i].OwnerID, rep.OwnerID)
		assert.Equal(t, 2, rep.Summary.Analyzed)
		assert.True(t, rep.Summary.Balanced())
		assert.Len(t, store.Records(jobs[i].OwnerID), 2)
	}

	total := Total(reports)
	assert.Equal(t, 12, total.Collected)
	assert.Equal(t, 12, total.Analyzed)
}

func TestRunMany_SharesCallLimiter(t *testing.T) {
	client := (&scriptedModel{}).client()
	limiter := &countingLimiter{}
	orch, err := New(Components{
		Keywords: staticKeywords{"채용"},
		Fetcher: &fakeFetcher{results: map[string][]types.CandidateArticle{
			"채용": {candidate(1), candidate(2)},
		}},
		Gate:        relevance.New(client, relevance.Config{}, nil),
		Analyzer:    analysis.NewAnalyzer(client, nil),
		Neutralizer: analysis.NewNeutralizer(client, nil),
		Extractor:   analysis.NewKeywordExtractor(client, nil),
		Store:       NewMemoryStore(),
		Limiter:     limiter,
	}, Options{}, nil)
	require.NoError(t, err)
	jobs := []Job{
		{OwnerID: "owner-1", Profile: types.JobProfile{JobGroup: "개발"}},
		{OwnerID: "owner-2", Profile: types.JobProfile{JobGroup: "개발"}},
		{OwnerID: "owner-3", Profile: types.JobProfile{JobGroup: "개발"}},
	}

	_, err = orch.RunMany(context.Background(), jobs, 2)
	require.NoError(t, err)

	// One wait per search plus one per analyzed article, for every job.
	assert.Equal(t, 3*(1+2), limiter.waits)
}

func TestRunMany_Empty(t *testing.T) {
	h := newHarness(t, []string{"채용"}, nil, nil)

	reports, err := h.orch.RunMany(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Empty(t, reports)
	assert.Equal(t, types.RunSummary{}, Total(reports))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	rec := &types.NewsRecord{
		OwnerID:         "owner-1",
		AnalyzedArticle: types.AnalyzedArticle{CandidateArticle: candidate(1)},
	}

	exists, err := store.ExistsByURL(ctx, "owner-1", rec.SourceURL)
	require.NoError(t, err)
	assert.False(t, exists)

	id, inserted, err := store.InsertNews(ctx, rec)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotEqual(t, uuid.Nil, id)

	_, inserted, err = store.InsertNews(ctx, rec)
	require.NoError(t, err)
	assert.False(t, inserted)

	exists, _ = store.ExistsByURL(ctx, "owner-1", rec.SourceURL)
	assert.True(t, exists)
	exists, _ = store.ExistsByURL(ctx, "owner-2", rec.SourceURL)
	assert.False(t, exists)

	records := store.Records("owner-1")
	require.Len(t, records, 1)
	assert.Equal(t, id, records[0].ID)
}
