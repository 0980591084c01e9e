package store

import (
	"context"

	"github.com/kubev2v/vm-power-agent/internal/models"
)

// Journal records reconciliation runs in the store.
type Journal struct {
	store *Store
}

func NewJournal(s *Store) *Journal {
	return &Journal{store: s}
}

func (j *Journal) CreateRun(ctx context.Context, report *models.RunReport, vcenter string) error {
	return j.store.Runs().Create(ctx, report.ID, vcenter, report.StartedAt)
}

func (j *Journal) SaveOutcome(ctx context.Context, runID string, o models.Outcome) error {
	return j.store.Outcomes().Save(ctx, runID, o)
}

func (j *Journal) FinishRun(ctx context.Context, report *models.RunReport, runErr error) error {
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}
	return j.store.Runs().Finish(ctx, report.ID, report.FinishedAt, msg)
}
