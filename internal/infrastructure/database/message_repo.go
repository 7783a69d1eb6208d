package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/language"

	"transkey/internal/ports/output"
)

// querier is the subset of *pgxpool.Pool the repository needs.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const (
	findMessageSQL   = `SELECT body FROM messages WHERE locale = $1 AND key = $2`
	upsertMessageSQL = `INSERT INTO messages (locale, key, body) VALUES ($1, $2, $3)
ON CONFLICT (locale, key) DO UPDATE SET body = EXCLUDED.body, updated_at = now()`
)

// MessageRepository stores messages in the messages table.
type MessageRepository struct {
	q querier
}

func NewMessageRepository(q querier) *MessageRepository {
	return &MessageRepository{q: q}
}

// Find returns the message for key at locale or at the nearest parent locale.
func (r *MessageRepository) Find(ctx context.Context, key string, locale language.Tag) (string, bool, error) {
	for tag := locale; ; tag = tag.Parent() {
		var body string
		err := r.q.QueryRow(ctx, findMessageSQL, tag.String(), key).Scan(&body)
		switch {
		case err == nil:
			return body, true, nil
		case !errors.Is(err, pgx.ErrNoRows):
			return "", false, fmt.Errorf("get message %s:%s: %w", tag, key, err)
		}
		if tag.IsRoot() {
			return "", false, nil
		}
	}
}

// Save inserts or replaces a message.
func (r *MessageRepository) Save(ctx context.Context, locale language.Tag, key, body string) error {
	if _, err := r.q.Exec(ctx, upsertMessageSQL, locale.String(), key, body); err != nil {
		return fmt.Errorf("save message %s:%s: %w", locale, key, err)
	}
	return nil
}

// Lookup adapts the repository to output.MessageLookup, bounding every query
// by timeout.
func (r *MessageRepository) Lookup(timeout time.Duration) output.MessageLookup {
	return boundedLookup{repo: r, timeout: timeout}
}

type boundedLookup struct {
	repo    *MessageRepository
	timeout time.Duration
}

func (l boundedLookup) Find(key string, locale language.Tag) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	return l.repo.Find(ctx, key, locale)
}

func (l boundedLookup) String() string { return "postgres messages" }
