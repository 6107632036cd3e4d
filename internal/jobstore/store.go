// Package jobstore persists processing job records to SQLite.
package jobstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/RahilHalai7/CSI-Hackathon/constants"
)

// Schema for the jobs table. Applied by Store.Init().
const Schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	kind TEXT NOT NULL,
	method TEXT,
	language TEXT,
	output TEXT,
	speaker_count INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	error TEXT,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
CREATE INDEX IF NOT EXISTS idx_jobs_created ON jobs(created_at);
`

// ErrNotFound is returned when a job id has no record.
var ErrNotFound = errors.New("job not found")

// Job is one processed artifact.
type Job struct {
	ID           string
	Source       string
	Kind         string // constants.ArtifactKind value
	Method       string
	Language     string
	Output       string
	SpeakerCount int
	Status       constants.JobStatus
	Error        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Store struct {
	db *sql.DB
}

// Open opens (creating parent directories as needed) the SQLite database at
// path and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := &Store{db: db}
	if err := s.Init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an existing database connection without applying the schema.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Init creates the jobs table if it doesn't exist.
func (s *Store) Init() error {
	_, err := s.db.Exec(Schema)
	return err
}

func (s *Store) Close() error { return s.db.Close() }

// Create inserts a queued job and returns it with a generated id.
func (s *Store) Create(ctx context.Context, source, kind string) (Job, error) {
	now := time.Now().UTC()
	j := Job{
		ID:        uuid.New().String(),
		Source:    source,
		Kind:      kind,
		Status:    constants.JobStatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, source, kind, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		j.ID, j.Source, j.Kind, string(j.Status), now.Unix(), now.Unix())
	if err != nil {
		return Job{}, fmt.Errorf("insert job: %w", err)
	}
	return j, nil
}

// SetStatus moves a job to the given status.
func (s *Store) SetStatus(ctx context.Context, id string, status constants.JobStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC().Unix(), id)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return checkAffected(res)
}

// Complete records a finished job's output and marks it DONE.
func (s *Store) Complete(ctx context.Context, id, method, language, output string, speakerCount int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, method = ?, language = ?, output = ?, speaker_count = ?, updated_at = ?
		 WHERE id = ?`,
		string(constants.JobStatusDone), method, language, output, speakerCount,
		time.Now().UTC().Unix(), id)
	if err != nil {
		return fmt.Errorf("complete job: %w", err)
	}
	return checkAffected(res)
}

// Fail marks a job FAILED with the given error text.
func (s *Store) Fail(ctx context.Context, id string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		string(constants.JobStatusFailed), msg, time.Now().UTC().Unix(), id)
	if err != nil {
		return fmt.Errorf("fail job: %w", err)
	}
	return checkAffected(res)
}

// Get fetches one job by id.
func (s *Store) Get(ctx context.Context, id string) (Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, kind, COALESCE(method,''), COALESCE(language,''),
		        COALESCE(output,''), speaker_count, status, COALESCE(error,''),
		        created_at, updated_at
		 FROM jobs WHERE id = ?`, id)
	return scanJob(row)
}

// List returns jobs newest first, up to limit (0 = no limit).
func (s *Store) List(ctx context.Context, limit int) ([]Job, error) {
	q := `SELECT id, source, kind, COALESCE(method,''), COALESCE(language,''),
	             COALESCE(output,''), speaker_count, status, COALESCE(error,''),
	             created_at, updated_at
	      FROM jobs ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(sc scanner) (Job, error) {
	var j Job
	var status string
	var created, updated int64
	err := sc.Scan(&j.ID, &j.Source, &j.Kind, &j.Method, &j.Language,
		&j.Output, &j.SpeakerCount, &status, &j.Error, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, ErrNotFound
	}
	if err != nil {
		return Job{}, fmt.Errorf("scan job: %w", err)
	}
	j.Status = constants.JobStatus(status)
	j.CreatedAt = time.Unix(created, 0).UTC()
	j.UpdatedAt = time.Unix(updated, 0).UTC()
	return j, nil
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
