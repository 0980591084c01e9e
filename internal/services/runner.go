package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kubev2v/vm-power-agent/internal/models"
)

const closeTimeout = 10 * time.Second

// Endpoint is a session with the virtualization management endpoint.
type Endpoint interface {
	Inventory(ctx context.Context) ([]models.InventoryEntry, error)
	Close(ctx context.Context) error
}

// Connector opens an endpoint session.
type Connector func(ctx context.Context, creds models.Credentials) (Endpoint, error)

// Journal persists the history of the runs. A journal failure is logged and
// never stops the run.
type Journal interface {
	CreateRun(ctx context.Context, report *models.RunReport, vcenter string) error
	SaveOutcome(ctx context.Context, runID string, o models.Outcome) error
	FinishRun(ctx context.Context, report *models.RunReport, runErr error) error
}

// Runner performs one reconciliation pass.
type Runner struct {
	connect    Connector
	reconciler *Reconciler
	journal    Journal
	log        *zap.SugaredLogger
}

func NewRunner(connect Connector, reconciler *Reconciler, log *zap.SugaredLogger) *Runner {
	return &Runner{
		connect:    connect,
		reconciler: reconciler,
		log:        log,
	}
}

// WithJournal records every run and outcome in j.
func (r *Runner) WithJournal(j Journal) *Runner {
	r.journal = j
	return r
}

// Run reconciles the declaration once. The endpoint session is always released
// before returning. The returned error is set only when the pass could not be
// completed: per vm failures are reported in the outcomes.
func (r *Runner) Run(ctx context.Context, decl *models.Declaration) (*models.RunReport, error) {
	report := &models.RunReport{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}
	log := r.log.With("run", report.ID)

	if err := r.journalDo(func(j Journal) error { return j.CreateRun(ctx, report, decl.VCenter.Hostname) }); err != nil {
		log.Errorw("failed to record run start", "error", err)
	}

	err := r.run(ctx, decl, report, log)
	report.FinishedAt = time.Now()

	if jerr := r.journalDo(func(j Journal) error { return j.FinishRun(context.WithoutCancel(ctx), report, err) }); jerr != nil {
		log.Errorw("failed to record run end", "error", jerr)
	}

	log.Infow("reconciliation finished",
		"desired", len(report.Outcomes),
		"excluded", len(report.Excluded),
		string(models.OutcomeAlreadyInDesiredState), report.Count(models.OutcomeAlreadyInDesiredState),
		string(models.OutcomeTransitioned), report.Count(models.OutcomeTransitioned),
		string(models.OutcomeTransitionFailed), report.Count(models.OutcomeTransitionFailed),
		string(models.OutcomeTaskCreationFailed), report.Count(models.OutcomeTaskCreationFailed),
		string(models.OutcomeNotFound), report.Count(models.OutcomeNotFound),
		"failed", report.Failed(),
		"duration", report.FinishedAt.Sub(report.StartedAt),
	)

	return report, err
}

func (r *Runner) run(ctx context.Context, decl *models.Declaration, report *models.RunReport, log *zap.SugaredLogger) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrUnexpected, p)
		}
	}()

	desired, excluded := DesiredStateSet(decl, log)
	report.Excluded = excluded

	log.Infow("connecting to vCenter", "hostname", decl.VCenter.Hostname, "user", decl.VCenter.Username)
	endpoint, err := r.connect(ctx, decl.VCenter)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrConnectivity, decl.VCenter.Hostname, err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
		defer cancel()
		if cerr := endpoint.Close(closeCtx); cerr != nil {
			log.Warnw("failed to close vCenter session", "error", cerr)
		}
	}()

	entries, err := endpoint.Inventory(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInventory, err)
	}
	snapshot := NewSnapshot(entries, log)
	log.Debugw("inventory retrieved", "vms", snapshot.Len())

	_, err = r.reconciler.Reconcile(ctx, desired, snapshot, func(o models.Outcome) {
		report.Outcomes = append(report.Outcomes, o)
		if jerr := r.journalDo(func(j Journal) error { return j.SaveOutcome(context.WithoutCancel(ctx), report.ID, o) }); jerr != nil {
			log.Errorw("failed to record outcome", "vm", o.VM, "error", jerr)
		}
	})
	return err
}

func (r *Runner) journalDo(fn func(j Journal) error) error {
	if r.journal == nil {
		return nil
	}
	return fn(r.journal)
}
