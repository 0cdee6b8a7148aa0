package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/career-news/internal/search"
	"github.com/jonathan/career-news/internal/types"
)

// Store persists analyzed articles. InsertNews reports inserted=false when a
// record for (OwnerID, SourceURL) already exists.
type Store interface {
	ExistsByURL(ctx context.Context, ownerID, sourceURL string) (bool, error)
	InsertNews(ctx context.Context, rec *types.NewsRecord) (id uuid.UUID, inserted bool, err error)
}

// RunRecorder keeps a history of collection runs. It is optional.
type RunRecorder interface {
	CreateRun(ctx context.Context, ownerID string, profile types.JobProfile) (uuid.UUID, error)
	CompleteRun(ctx context.Context, runID uuid.UUID, status string, summary types.RunSummary) error
}

// Fetcher returns candidate articles for one keyword.
type Fetcher interface {
	Fetch(ctx context.Context, keyword string, limit int, sort search.Sort) ([]types.CandidateArticle, error)
}

// KeywordSource resolves the search keywords of a profile.
type KeywordSource interface {
	Resolve(ctx context.Context, profile types.JobProfile) types.KeywordSet
}

// MemoryStore is an in-process Store used for dry runs and tests.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]types.NewsRecord
	order   []string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]types.NewsRecord)}
}

func memoryKey(ownerID, sourceURL string) string {
	return ownerID + "\x00" + sourceURL
}

// ExistsByURL implements Store.
func (m *MemoryStore) ExistsByURL(_ context.Context, ownerID, sourceURL string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[memoryKey(ownerID, sourceURL)]
	return ok, nil
}

// InsertNews implements Store.
func (m *MemoryStore) InsertNews(_ context.Context, rec *types.NewsRecord) (uuid.UUID, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memoryKey(rec.OwnerID, rec.SourceURL)
	if _, ok := m.records[key]; ok {
		return uuid.Nil, false, nil
	}
	stored := *rec
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	m.records[key] = stored
	m.order = append(m.order, key)
	return stored.ID, true, nil
}

// Records returns the owner's records in insertion order.
func (m *MemoryStore) Records(ownerID string) []types.NewsRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.NewsRecord
	for _, key := range m.order {
		if rec := m.records[key]; rec.OwnerID == ownerID {
			out = append(out, rec)
		}
	}
	return out
}
