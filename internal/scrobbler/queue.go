package scrobbler

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jfmyers9/lfm/pkg/lastfm"
	_ "modernc.org/sqlite"
)

// MaxScrobbleAge is the oldest play Last.fm still accepts.
const MaxScrobbleAge = 14 * 24 * time.Hour

// Status is the lifecycle state of a queued scrobble.
type Status string

const (
	StatusPending   Status = "pending"
	StatusScrobbled Status = "scrobbled"
	StatusIgnored   Status = "ignored"
)

// Queue is a persistent store of plays waiting to be submitted, backed by
// SQLite.
type Queue struct {
	db *sql.DB
}

// QueuedScrobble is a play held in the queue.
type QueuedScrobble struct {
	lastfm.Scrobble

	ID       int64
	Status   Status
	Attempts int
	Error    string
}

// Stats summarizes the queue by status.
type Stats struct {
	Pending   int
	Failing   int // pending entries whose last submission failed
	Scrobbled int
	Ignored   int
}

const schema = `
	CREATE TABLE IF NOT EXISTS scrobbles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		artist TEXT NOT NULL,
		track TEXT NOT NULL,
		album TEXT NOT NULL DEFAULT '',
		album_artist TEXT NOT NULL DEFAULT '',
		mbid TEXT NOT NULL DEFAULT '',
		track_number INTEGER NOT NULL DEFAULT 0,
		duration INTEGER NOT NULL DEFAULT 0,
		played_at INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		attempts INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_status_played ON scrobbles(status, played_at);
`

const selectColumns = `
	SELECT id, artist, track, album, album_artist, mbid, track_number,
		duration, played_at, status, attempts, error
	FROM scrobbles
`

// NewQueue opens (creating if needed) the queue database at dbPath. Use
// ":memory:" for a throwaway queue.
func NewQueue(dbPath string) (*Queue, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps in-memory databases consistent.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Queue{db: db}, nil
}

// Close closes the database connection
func (q *Queue) Close() error {
	if q.db != nil {
		return q.db.Close()
	}
	return nil
}

// Add stores a play and returns its queue id. Plays without an artist or
// track name are rejected.
func (q *Queue) Add(ctx context.Context, s lastfm.Scrobble) (int64, error) {
	t := s.Track
	if t.Artist == "" || t.Track == "" {
		return 0, fmt.Errorf("artist and track are required")
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now()
	}

	result, err := q.db.ExecContext(ctx, `
		INSERT INTO scrobbles (artist, track, album, album_artist, mbid, track_number, duration, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Artist, t.Track, t.Album, t.AlbumArtist, t.MBID, t.TrackNumber,
		int64(t.Duration/time.Second), s.Timestamp.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert scrobble: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get insert id: %w", err)
	}
	return id, nil
}

// MarkScrobbled records that the given entries were accepted.
func (q *Queue) MarkScrobbled(ctx context.Context, ids ...int64) error {
	return q.update(ctx, "UPDATE scrobbles SET status = 'scrobbled', error = '' WHERE id = ?", ids)
}

// MarkIgnored records that Last.fm refused the given entries. Ignored entries
// are never resubmitted.
func (q *Queue) MarkIgnored(ctx context.Context, reason string, ids ...int64) error {
	return q.update(ctx, "UPDATE scrobbles SET status = 'ignored', error = ? WHERE id = ?", ids, reason)
}

// MarkFailed records a failed submission. The entries stay pending.
func (q *Queue) MarkFailed(ctx context.Context, reason string, ids ...int64) error {
	return q.update(ctx, "UPDATE scrobbles SET attempts = attempts + 1, error = ? WHERE id = ?", ids, reason)
}

// update runs stmt once per id inside a single transaction. The id is bound
// after any leading args.
func (q *Queue) update(ctx context.Context, stmt string, ids []int64, args ...any) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = prepared.Close() }()

	for _, id := range ids {
		result, err := prepared.ExecContext(ctx, append(args, id)...)
		if err != nil {
			return fmt.Errorf("failed to update scrobble %d: %w", id, err)
		}
		if n, err := result.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("scrobble with id %d not found", id)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Pending returns the entries waiting for submission, oldest play first.
// A limit of zero returns all of them.
func (q *Queue) Pending(ctx context.Context, limit int) ([]QueuedScrobble, error) {
	query := selectColumns + " WHERE status = 'pending' ORDER BY played_at ASC, id ASC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	return q.query(ctx, query)
}

// List returns entries with any of the given statuses, newest play first.
// No statuses means every entry.
func (q *Queue) List(ctx context.Context, statuses ...Status) ([]QueuedScrobble, error) {
	query := selectColumns
	args := make([]any, len(statuses))
	if len(statuses) > 0 {
		marks := make([]string, len(statuses))
		for i, s := range statuses {
			marks[i] = "?"
			args[i] = string(s)
		}
		query += " WHERE status IN (" + strings.Join(marks, ", ") + ")"
	}
	query += " ORDER BY played_at DESC, id DESC"
	return q.query(ctx, query, args...)
}

func (q *Queue) query(ctx context.Context, query string, args ...any) ([]QueuedScrobble, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scrobbles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []QueuedScrobble
	for rows.Next() {
		var (
			s        QueuedScrobble
			duration int64
			playedAt int64
			status   string
		)
		t := &s.Track
		if err := rows.Scan(&s.ID, &t.Artist, &t.Track, &t.Album, &t.AlbumArtist, &t.MBID,
			&t.TrackNumber, &duration, &playedAt, &status, &s.Attempts, &s.Error); err != nil {
			return nil, fmt.Errorf("failed to scan scrobble: %w", err)
		}
		t.Duration = time.Duration(duration) * time.Second
		s.Timestamp = time.Unix(playedAt, 0)
		s.Status = Status(status)
		out = append(out, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scrobbles: %w", err)
	}
	return out, nil
}

// Prune deletes submitted and ignored entries played before now-keep, and
// pending entries too old for Last.fm to accept.
func (q *Queue) Prune(ctx context.Context, now time.Time, keep time.Duration) (int64, error) {
	result, err := q.db.ExecContext(ctx, `
		DELETE FROM scrobbles
		WHERE (status != 'pending' AND played_at < ?)
		OR (status = 'pending' AND played_at < ?)`,
		now.Add(-keep).Unix(), now.Add(-MaxScrobbleAge).Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune scrobbles: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}

// Stats counts the entries in each state.
func (q *Queue) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := q.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(status = 'pending'), 0),
			COALESCE(SUM(status = 'pending' AND error != ''), 0),
			COALESCE(SUM(status = 'scrobbled'), 0),
			COALESCE(SUM(status = 'ignored'), 0)
		FROM scrobbles`).Scan(&st.Pending, &st.Failing, &st.Scrobbled, &st.Ignored)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count scrobbles: %w", err)
	}
	return st, nil
}
