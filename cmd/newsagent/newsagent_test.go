package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-news/internal/config"
	"github.com/jonathan/career-news/internal/keywords"
	"github.com/jonathan/career-news/internal/llm"
	"github.com/jonathan/career-news/internal/llm/llmtest"
	"github.com/jonathan/career-news/internal/logging"
	"github.com/jonathan/career-news/internal/pipeline"
	"github.com/jonathan/career-news/internal/search"
	"github.com/jonathan/career-news/internal/types"
)

func noEnv(string) (string, bool) { return "", false }

func newTestCommand(f *commonFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	f.register(cmd.Flags())
	return cmd
}

func TestResolveConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"owner_id": "from-file",
		"job_group": "개발",
		"job_role": "프론트엔드 개발자",
		"database_url": "postgres://file"
	}`), 0644))

	var f commonFlags
	cmd := newTestCommand(&f)
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--role", "백엔드 개발자"}))

	env := func(k string) (string, bool) {
		switch k {
		case config.EnvDatabaseURL:
			return "postgres://env", true
		case config.EnvAPIKey:
			return "env-key", true
		}
		return "", false
	}

	cfg, err := f.resolveConfig(cmd, env)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.OwnerID)
	assert.Equal(t, "개발", cfg.JobGroup)
	assert.Equal(t, "백엔드 개발자", cfg.JobRole, "flag beats file")
	assert.Equal(t, "postgres://file", cfg.DatabaseURL, "file beats env")
	assert.Equal(t, "env-key", cfg.APIKey, "env fills gaps")
	assert.Equal(t, 10, cfg.LimitPerKeyword, "defaults fill the rest")
	assert.Equal(t, config.RelevanceBoolean, cfg.RelevanceMode)
}

func TestResolveConfig_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"relevance_mode": "fuzzy"}`), 0644))

	var f commonFlags
	cmd := newTestCommand(&f)
	require.NoError(t, cmd.ParseFlags([]string{"--config", path}))

	_, err := f.resolveConfig(cmd, noEnv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relevance_mode")
}

func TestNewKeywordCache(t *testing.T) {
	ctx := context.Background()
	logger := logging.Discard()

	cache, closeFn := newKeywordCache(ctx, config.Defaults(), logger)
	defer closeFn()
	assert.IsType(t, &keywords.MemoryCache{}, cache)

	mr := miniredis.RunT(t)
	cfg := config.Defaults()
	cfg.RedisURL = "redis://" + mr.Addr()
	cache, closeRedis := newKeywordCache(ctx, cfg, logger)
	defer closeRedis()
	assert.IsType(t, &keywords.RedisCache{}, cache)

	cfg.RedisURL = "redis://127.0.0.1:1"
	cache, closeFallback := newKeywordCache(ctx, cfg, logger)
	defer closeFallback()
	assert.IsType(t, &keywords.MemoryCache{}, cache)
}

type stubFetcher map[string][]types.CandidateArticle

func (s stubFetcher) Fetch(_ context.Context, keyword string, _ int, _ search.Sort) ([]types.CandidateArticle, error) {
	return s[keyword], nil
}

func TestBuildOrchestrator_EndToEnd(t *testing.T) {
	client := &llmtest.MockClient{
		GenerateContentFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return "true", nil
		},
		GenerateJSONFunc: func(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
			switch {
			case strings.Contains(prompt, "Extract between 1 and 5"):
				return `["백엔드", "채용"]`, nil
			case strings.Contains(prompt, "Title:"):
				return `{"summary":"채용이 늘었다. 신입 비중이 크다. 연말까지 이어진다.","sentiment":"neutral","trust_score":75,"bias_detected":false,"bias_type":null,"category":"IT"}`, nil
			}
			return `["백엔드 개발자 채용"]`, nil
		},
	}

	long := strings.Repeat("백엔드 개발자 채용 소식이다. ", 20)
	store := pipeline.NewMemoryStore()
	var states []pipeline.State

	cfg := config.Defaults()
	cfg.RequestIntervalMs = 0
	orch, err := buildOrchestrator(cfg, deps{
		client: client,
		cache:  keywords.NewMemoryCache(8, 0),
		fetcher: stubFetcher{"개발자 채용": {{
			Title:     "OO기업, 백엔드 개발자 10명 신입 공채",
			Snippet:   long,
			SourceURL: "https://news.example.com/1",
		}}},
		store:   store,
		onState: func(_ string, s pipeline.State) { states = append(states, s) },
	}, logging.Discard())
	require.NoError(t, err)

	rep := orch.RunWithReport(context.Background(), "owner-1", types.JobProfile{JobGroup: "개발", JobRole: "백엔드 개발자"}, 10)

	assert.Equal(t, 1, rep.Summary.Analyzed)
	assert.True(t, rep.Summary.Balanced())
	assert.True(t, rep.Keywords.Contains("백엔드 개발자 채용"))
	require.Len(t, store.Records("owner-1"), 1)
	assert.Equal(t, pipeline.StateDone, states[len(states)-1])
}

func TestBuildOrchestrator_RequiresClient(t *testing.T) {
	_, err := buildOrchestrator(config.Defaults(), deps{store: pipeline.NewMemoryStore()}, logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM client")
}

func TestInitDB_PrintSchema(t *testing.T) {
	var out bytes.Buffer
	initDBCmd.SetOut(&out)
	initDBPrintOnly = true
	defer func() { initDBPrintOnly = false }()

	require.NoError(t, runInitDB(initDBCmd, nil))
	assert.Contains(t, out.String(), "CREATE TABLE IF NOT EXISTS news_articles")
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"collect", "init-db", "keywords", "list"} {
		assert.True(t, names[want], want)
	}
}

func TestNewSources(t *testing.T) {
	cfg := config.Defaults()
	assert.IsType(t, &search.Client{}, newSources(cfg, logging.Discard()))

	cfg.Source = config.SourceRSS
	assert.IsType(t, &search.FeedClient{}, newSources(cfg, logging.Discard()))

	cfg.Source = config.SourceAll
	sources, ok := newSources(cfg, logging.Discard()).(search.Sources)
	require.True(t, ok)
	assert.Len(t, sources, 2)
}

func TestListFilter(t *testing.T) {
	defer func() { listCategory, listSince, listLimit = "", 0, 20 }()
	now := time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)

	listCategory, listSince, listLimit = "IT", 48*time.Hour, 5
	filter, err := listFilter("user-1", now)
	require.NoError(t, err)
	assert.Equal(t, types.CategoryIT, filter.Category)
	assert.Equal(t, now.Add(-48*time.Hour), filter.Since)
	assert.Equal(t, 5, filter.Limit)

	listCategory = "sports"
	_, err = listFilter("user-1", now)
	require.Error(t, err)
}
