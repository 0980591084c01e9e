package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/kubev2v/vm-power-agent/internal/models"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("not found")

// OutcomeStore handles the outcomes table.
type OutcomeStore struct {
	db *sql.DB
}

func NewOutcomeStore(db *sql.DB) *OutcomeStore {
	return &OutcomeStore{db: db}
}

// Save appends an outcome to a run.
func (s *OutcomeStore) Save(ctx context.Context, runID string, o models.Outcome) error {
	var seq int
	if err := s.db.QueryRowContext(ctx, queryNextOutcomeSeq, runID).Scan(&seq); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, queryInsertOutcome,
		runID, seq, o.VM, string(o.Desired), string(o.Observed), string(o.Action), string(o.Kind), o.Detail, o.Duration.Milliseconds())
	return err
}

// List returns the outcomes of a run in the order they were saved.
func (s *OutcomeStore) List(ctx context.Context, runID string) ([]models.Outcome, error) {
	rows, err := s.db.QueryContext(ctx, queryListOutcomes, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var outcomes []models.Outcome
	for rows.Next() {
		o, err := scanOutcome(rows)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, *o)
	}
	return outcomes, rows.Err()
}

func scanOutcome(row scanner) (*models.Outcome, error) {
	var (
		o                               models.Outcome
		desired, observed, action, kind string
		durationMs                      int64
	)
	if err := row.Scan(&o.VM, &desired, &observed, &action, &kind, &o.Detail, &durationMs); err != nil {
		return nil, err
	}
	o.Desired = models.PowerState(desired)
	o.Observed = models.PowerState(observed)
	o.Action = models.Action(action)
	o.Kind = models.OutcomeKind(kind)
	o.Duration = time.Duration(durationMs) * time.Millisecond
	return &o, nil
}
