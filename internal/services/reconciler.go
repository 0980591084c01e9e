package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/vm-power-agent/internal/models"
	"github.com/kubev2v/vm-power-agent/pkg/scheduler"
)

// Reconciler converges the power state of the inventory to the desired state.
type Reconciler struct {
	poller    *Poller
	policy    models.ShutdownPolicy
	scheduler *scheduler.Scheduler
	log       *zap.SugaredLogger
}

func NewReconciler(poller *Poller, policy models.ShutdownPolicy, log *zap.SugaredLogger) *Reconciler {
	if policy == "" {
		policy = models.ShutdownPolicyGraceful
	}
	return &Reconciler{
		poller: poller,
		policy: policy,
		log:    log,
	}
}

// WithScheduler makes the reconciler run the vms on the scheduler workers
// instead of one after the other.
func (r *Reconciler) WithScheduler(s *scheduler.Scheduler) *Reconciler {
	r.scheduler = s
	return r
}

// Reconcile produces one outcome per desired entry, in the order of desired.
// record is called with every outcome as soon as it is known, in the same order.
// An error is returned only when the run has to stop: ctx is done or a vm
// step failed unexpectedly. Outcomes produced before the error are returned.
func (r *Reconciler) Reconcile(ctx context.Context, desired []models.DesiredEntry, snapshot *Snapshot, record func(models.Outcome)) ([]models.Outcome, error) {
	if record == nil {
		record = func(models.Outcome) {}
	}
	if r.scheduler != nil {
		return r.reconcileParallel(ctx, desired, snapshot, record)
	}

	outcomes := make([]models.Outcome, 0, len(desired))
	for _, entry := range desired {
		o, err := r.safeReconcileOne(ctx, entry, snapshot)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, o)
		record(o)

		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
	}
	return outcomes, nil
}

// reconcileParallel runs every entry on the scheduler. When the run aborts,
// the remaining work is stopped and waited for, and the outcomes of work that
// had already started are still recorded.
func (r *Reconciler) reconcileParallel(ctx context.Context, desired []models.DesiredEntry, snapshot *Snapshot, record func(models.Outcome)) ([]models.Outcome, error) {
	runCtx, abort := context.WithCancel(ctx)
	defer abort()

	futures := make([]*models.Future[models.Result[any]], 0, len(desired))
	for _, entry := range desired {
		futures = append(futures, r.scheduler.AddWork(func(workCtx context.Context) (any, error) {
			vmCtx, cancel := context.WithCancel(runCtx)
			defer cancel()
			stop := context.AfterFunc(workCtx, cancel)
			defer stop()
			return r.reconcileOne(vmCtx, entry, snapshot), nil
		}))
	}

	outcomes := make([]models.Outcome, 0, len(desired))
	collect := func(result models.Result[any]) {
		o := result.Data.(models.Outcome)
		outcomes = append(outcomes, o)
		record(o)
	}

	for i, f := range futures {
		result, err := f.Wait(ctx)
		if err == nil && result.Err == nil {
			collect(result)
			continue
		}

		rest := futures[i:]
		if err == nil {
			err = fmt.Errorf("%w: vm %s: %w", ErrUnexpected, desired[i].Name, result.Err)
			rest = futures[i+1:]
		}

		abort()
		for _, pending := range rest {
			pending.Stop()
		}
		for _, pending := range rest {
			if result, _ := pending.Wait(context.Background()); result.Err == nil {
				collect(result)
			}
		}
		return outcomes, err
	}
	return outcomes, ctx.Err()
}

func (r *Reconciler) safeReconcileOne(ctx context.Context, entry models.DesiredEntry, snapshot *Snapshot) (o models.Outcome, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: vm %s: %v", ErrUnexpected, entry.Name, p)
		}
	}()
	return r.reconcileOne(ctx, entry, snapshot), nil
}

func (r *Reconciler) reconcileOne(ctx context.Context, entry models.DesiredEntry, snapshot *Snapshot) models.Outcome {
	start := time.Now()
	o := r.decide(ctx, entry, snapshot)
	o.Duration = time.Since(start)
	r.logOutcome(o)
	return o
}

func (r *Reconciler) decide(ctx context.Context, entry models.DesiredEntry, snapshot *Snapshot) models.Outcome {
	o := models.Outcome{
		VM:      entry.Name,
		Desired: entry.State,
		Action:  models.ActionNone,
	}

	vm, found := snapshot.Lookup(entry.Name)
	if !found {
		o.Kind = models.OutcomeNotFound
		return o
	}
	o.Observed = vm.State

	if vm.State == entry.State {
		o.Kind = models.OutcomeAlreadyInDesiredState
		return o
	}

	if err := ctx.Err(); err != nil {
		o.Kind = models.OutcomeTaskCreationFailed
		o.Detail = err.Error()
		return o
	}

	var (
		task models.Task
		err  error
	)
	switch entry.State {
	case models.PowerStateOn:
		o.Action = models.ActionPowerOn
		r.log.Infow("machine gets power on signal", "vm", entry.Name)
		task, err = vm.Machine.PowerOn(ctx)
	case models.PowerStateOff:
		o.Action = shutdownAction(r.policy)
		r.log.Infow("machine gets shutdown signal", "vm", entry.Name, "policy", r.policy)
		task, err = vm.Machine.Shutdown(ctx, r.policy)
	}

	if err != nil || task == nil {
		o.Kind = models.OutcomeTaskCreationFailed
		o.Detail = "endpoint returned no task"
		if err != nil {
			o.Detail = err.Error()
		}
		return o
	}

	info, err := r.poller.Wait(ctx, entry.Name, task)
	switch {
	case err != nil:
		o.Kind = models.OutcomeTransitionFailed
		o.Detail = err.Error()
	case info.State == models.TaskStateFailed:
		o.Kind = models.OutcomeTransitionFailed
		o.Detail = info.Error
	default:
		o.Kind = models.OutcomeTransitioned
	}
	return o
}

func shutdownAction(policy models.ShutdownPolicy) models.Action {
	if policy == models.ShutdownPolicyForced {
		return models.ActionPowerOff
	}
	return models.ActionShutdownGuest
}

func (r *Reconciler) logOutcome(o models.Outcome) {
	fields := []any{"vm", o.VM, "desired", o.Desired, "outcome", o.Kind}
	if o.Observed != "" {
		fields = append(fields, "observed", o.Observed)
	}
	if o.Action != models.ActionNone {
		fields = append(fields, "action", o.Action, "duration", o.Duration)
	}

	switch o.Kind {
	case models.OutcomeAlreadyInDesiredState:
		r.log.Infow(fmt.Sprintf("machine is already turned %s", o.Desired), fields...)
	case models.OutcomeTransitioned:
		r.log.Infow(fmt.Sprintf("machine turned %s", o.Desired), fields...)
	case models.OutcomeNotFound:
		r.log.Warnw("machine wasn't found", fields...)
	default:
		fields = append(fields, "error", o.Detail)
		r.log.Errorw("machine failed to turn "+o.Desired.String(), fields...)
	}
}
