package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/kubev2v/vm-power-agent/internal/models"
)

// RunStore handles the runs table.
type RunStore struct {
	db *sql.DB
}

func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// Create stores a started run.
func (s *RunStore) Create(ctx context.Context, id, vcenter string, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, queryInsertRun, id, vcenter, startedAt.UTC())
	return err
}

// Finish sets the end time and the error of a run. An empty runErr means the run completed.
func (s *RunStore) Finish(ctx context.Context, id string, finishedAt time.Time, runErr string) error {
	var errValue sql.NullString
	if runErr != "" {
		errValue = sql.NullString{String: runErr, Valid: true}
	}
	res, err := s.db.ExecContext(ctx, queryFinishRun, finishedAt.UTC(), errValue, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Get retrieves a run by id.
func (s *RunStore) Get(ctx context.Context, id string) (*models.RunRecord, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx, queryGetRun, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// List returns the latest runs, newest first.
func (s *RunStore) List(ctx context.Context, limit int) ([]models.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, queryListRuns, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []models.RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*models.RunRecord, error) {
	var (
		r          models.RunRecord
		finishedAt sql.NullTime
		runErr     sql.NullString
	)
	if err := row.Scan(&r.ID, &r.VCenter, &r.StartedAt, &finishedAt, &runErr); err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		t := finishedAt.Time
		r.FinishedAt = &t
	}
	r.Error = runErr.String
	return &r, nil
}
