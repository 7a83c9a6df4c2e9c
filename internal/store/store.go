// Package store caches fetched posts in SQLite so stats and exports keep
// working when the catalog API is unreachable. Only raw counters as
// fetched are persisted; computed metrics are rebuilt on every pass.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/BeatNow2-0/beatpulse/pkg/catalog"
	"github.com/BeatNow2-0/beatpulse/pkg/stats"
)

// Post is one cached catalog record.
type Post struct {
	Username    string    `db:"username"`
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	PublishedAt time.Time `db:"published_at"`
	Plays       int       `db:"plays"`
	Likes       int       `db:"likes"`
	Saves       int       `db:"saves"`
	Plays7d     float64   `db:"plays_7d"`
	Likes7d     float64   `db:"likes_7d"`
	Saves7d     float64   `db:"saves_7d"`
	Price       float64   `db:"price"`
	SalesCount  int       `db:"sales_count"`
	Position    int       `db:"position"`
	FetchedAt   time.Time `db:"fetched_at"`
}

// FromMetrics converts normalized metrics into a cache row. Derived
// fields are deliberately not carried over.
func FromMetrics(username string, position int, m stats.Metrics, fetchedAt time.Time) Post {
	return Post{
		Username:    username,
		ID:          m.ID,
		Title:       m.Title,
		PublishedAt: m.PublicationDate,
		Plays:       m.Plays,
		Likes:       m.Likes,
		Saves:       m.Saves,
		Plays7d:     m.Plays7d,
		Likes7d:     m.Likes7d,
		Saves7d:     m.Saves7d,
		Price:       m.Price,
		SalesCount:  m.SalesCount,
		Position:    position,
		FetchedAt:   fetchedAt,
	}
}

// ToRaw converts a cached row back into the raw shape the engine accepts,
// so offline runs go through the exact same pipeline as live ones.
func (p Post) ToRaw() catalog.RawPost {
	return catalog.RawPost{
		"_id":              p.ID,
		"title":            p.Title,
		"publication_date": p.PublishedAt.UTC().Format(time.RFC3339),
		"plays":            p.Plays,
		"likes":            p.Likes,
		"saves":            p.Saves,
		"plays_7d":         p.Plays7d,
		"likes_7d":         p.Likes7d,
		"saves_7d":         p.Saves7d,
		"price":            p.Price,
		"sales_count":      p.SalesCount,
	}
}

// Fetch records one completed catalog fetch.
type Fetch struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	Source    string    `db:"source"`
	PostCount int       `db:"post_count"`
	FetchedAt time.Time `db:"fetched_at"`
}

// Store is the persistence interface.
type Store interface {
	ReplacePosts(ctx context.Context, username string, posts []Post) error
	ListPosts(ctx context.Context, username string) ([]Post, error)
	RecordFetch(ctx context.Context, username, source string, postCount int) error
	LastFetch(ctx context.Context, username string) (*Fetch, error)

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ReplacePosts swaps the producer's cached collection for the given one.
// A refresh always replaces everything; there is no merge.
func (s *SQLiteStore) ReplacePosts(ctx context.Context, username string, posts []Post) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace posts: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM posts WHERE username = ?", username); err != nil {
		return fmt.Errorf("clear posts for %s: %w", username, err)
	}

	for _, p := range posts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO posts (username, id, title, published_at, plays, likes, saves,
			                   plays_7d, likes_7d, saves_7d, price, sales_count, position, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, p.Username, p.ID, p.Title, p.PublishedAt, p.Plays, p.Likes, p.Saves,
			p.Plays7d, p.Likes7d, p.Saves7d, p.Price, p.SalesCount, p.Position, p.FetchedAt)
		if err != nil {
			return fmt.Errorf("insert post %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace posts: %w", err)
	}
	return nil
}

// ListPosts returns the cached collection in its original API order.
func (s *SQLiteStore) ListPosts(ctx context.Context, username string) ([]Post, error) {
	var posts []Post
	err := s.db.SelectContext(ctx, &posts,
		"SELECT * FROM posts WHERE username = ? ORDER BY position", username)
	if err != nil {
		return nil, fmt.Errorf("list posts for %s: %w", username, err)
	}
	return posts, nil
}

func (s *SQLiteStore) RecordFetch(ctx context.Context, username, source string, postCount int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fetches (username, source, post_count, fetched_at)
		VALUES (?, ?, ?, ?)
	`, username, source, postCount, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record fetch for %s: %w", username, err)
	}
	return nil
}

// LastFetch returns the most recent fetch for a producer, or nil if the
// cache has never been filled.
func (s *SQLiteStore) LastFetch(ctx context.Context, username string) (*Fetch, error) {
	var f Fetch
	err := s.db.GetContext(ctx, &f,
		"SELECT * FROM fetches WHERE username = ? ORDER BY fetched_at DESC LIMIT 1", username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last fetch for %s: %w", username, err)
	}
	return &f, nil
}
