package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/career-news/internal/types"
)

// ExistsByURL reports whether the owner already has a record for sourceURL.
func (db *DB) ExistsByURL(ctx context.Context, ownerID, sourceURL string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM news_articles WHERE owner_id = $1 AND source_url = $2)`,
		ownerID, sourceURL,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check news existence: %w", err)
	}
	return exists, nil
}

// InsertNews stores a record. When (owner_id, source_url) already exists the
// row is left untouched and inserted is false. A zero CreatedAt falls back to
// the database clock.
func (db *DB) InsertNews(ctx context.Context, rec *types.NewsRecord) (uuid.UUID, bool, error) {
	if rec == nil {
		return uuid.Nil, false, fmt.Errorf("news record is nil")
	}
	if err := rec.Validate(); err != nil {
		return uuid.Nil, false, fmt.Errorf("invalid news record: %w", err)
	}

	analysisJSON, err := json.Marshal(rec.Analysis)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to marshal analysis: %w", err)
	}
	keywords := rec.Keywords
	if keywords == nil {
		keywords = []types.KeywordTag{}
	}
	keywordsJSON, err := json.Marshal(keywords)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to marshal keywords: %w", err)
	}

	id := rec.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	var storedID uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO news_articles (
			id, owner_id, title, snippet, source_url, source_name, full_text,
			summary_text, detail_summary, sentiment, trust_score, bias_detected,
			category, analysis, keywords, published_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, COALESCE($17, NOW()))
		ON CONFLICT (owner_id, source_url) DO NOTHING
		RETURNING id`,
		id, rec.OwnerID, rec.Title, rec.Snippet, rec.SourceURL, rec.SourceName, rec.FullText,
		rec.SummaryText, rec.DetailSummary, string(rec.Analysis.Sentiment), rec.Analysis.TrustScore,
		rec.Analysis.BiasDetected, string(rec.Analysis.Category), analysisJSON, keywordsJSON,
		nullableTime(rec.PublishedAt), nullableTime(rec.CreatedAt),
	).Scan(&storedID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to insert news: %w", err)
	}
	return storedID, true, nil
}

// DefaultListLimit is the page size used when a filter sets none.
const DefaultListLimit = 20

// ListFilter narrows List to one owner's records.
type ListFilter struct {
	OwnerID  string
	Category types.Category
	Since    time.Time
	Limit    int
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ListByOwner returns the owner's most recent records, newest first.
func (db *DB) ListByOwner(ctx context.Context, ownerID string, limit int) ([]types.NewsRecord, error) {
	return db.List(ctx, ListFilter{OwnerID: ownerID, Limit: limit})
}

// List returns records matching filter, newest first.
func (db *DB) List(ctx context.Context, filter ListFilter) ([]types.NewsRecord, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	query := psql.Select(
		"id", "owner_id", "title", "snippet", "source_url", "source_name", "full_text",
		"summary_text", "detail_summary", "analysis", "keywords", "published_at", "created_at",
	).
		From("news_articles").
		Where(sq.Eq{"owner_id": filter.OwnerID}).
		OrderBy("created_at DESC").
		Limit(uint64(filter.Limit))
	if filter.Category != "" {
		query = query.Where(sq.Eq{"category": string(filter.Category)})
	}
	if !filter.Since.IsZero() {
		query = query.Where(sq.GtOrEq{"created_at": filter.Since})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}
	rows, err := db.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	defer rows.Close()

	var records []types.NewsRecord
	for rows.Next() {
		var (
			rec          types.NewsRecord
			analysisJSON []byte
			keywordsJSON []byte
			publishedAt  *time.Time
		)
		if err := rows.Scan(
			&rec.ID, &rec.OwnerID, &rec.Title, &rec.Snippet, &rec.SourceURL, &rec.SourceName, &rec.FullText,
			&rec.SummaryText, &rec.DetailSummary, &analysisJSON, &keywordsJSON, &publishedAt, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan news: %w", err)
		}
		if err := json.Unmarshal(analysisJSON, &rec.Analysis); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analysis for %s: %w", rec.SourceURL, err)
		}
		if len(keywordsJSON) > 0 && strings.TrimSpace(string(keywordsJSON)) != "null" {
			if err := json.Unmarshal(keywordsJSON, &rec.Keywords); err != nil {
				return nil, fmt.Errorf("failed to unmarshal keywords for %s: %w", rec.SourceURL, err)
			}
		}
		if publishedAt != nil {
			rec.PublishedAt = *publishedAt
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate news: %w", err)
	}
	return records, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
