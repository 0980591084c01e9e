package services_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kubev2v/vm-power-agent/internal/models"
	"github.com/kubev2v/vm-power-agent/internal/services"
)

// panickingMachine fails in an unanticipated way.
type panickingMachine struct{}

func (panickingMachine) PowerOn(ctx context.Context) (models.Task, error) {
	panic("nil session")
}

func (panickingMachine) Shutdown(ctx context.Context, policy models.ShutdownPolicy) (models.Task, error) {
	panic("nil session")
}

type panickingEndpoint struct {
	*fakeEndpoint
}

func (p panickingEndpoint) Inventory(ctx context.Context) ([]models.InventoryEntry, error) {
	return []models.InventoryEntry{{Name: "vmP", State: models.PowerStateOff, Machine: panickingMachine{}}}, nil
}

var _ = Describe("Runner", func() {
	var (
		ctx      context.Context
		endpoint *fakeEndpoint
		connects int
		connect  services.Connector
		logs     *observer.ObservedLogs
		runner   *services.Runner
		journal  *fakeJournal
		decl     *models.Declaration
	)

	BeforeEach(func() {
		ctx = context.Background()
		endpoint = newFakeEndpoint()
		connects = 0
		connect = func(ctx context.Context, creds models.Credentials) (services.Endpoint, error) {
			connects++
			return endpoint, nil
		}
		var core zapcore.Core
		core, logs = observer.New(zapcore.DebugLevel)
		log := zap.New(core).Sugar()

		journal = &fakeJournal{}
		reconciler := services.NewReconciler(services.NewPoller(time.Millisecond, 0, log), models.ShutdownPolicyGraceful, log)
		runner = services.NewRunner(func(ctx context.Context, creds models.Credentials) (services.Endpoint, error) {
			return connect(ctx, creds)
		}, reconciler, log).WithJournal(journal)

		decl = &models.Declaration{
			VCenter: models.Credentials{Hostname: "vc.example.com", Username: "admin", Password: "secret"},
			VMs:     map[string]models.PowerState{},
		}
	})

	It("should produce exactly one outcome per desired entry", func() {
		endpoint.add("vmA", models.PowerStateOff)
		endpoint.add("vmB", models.PowerStateOff)
		endpoint.add("vmE", models.PowerStateOn)
		decl.VMs = map[string]models.PowerState{
			"vmA": models.PowerStateOn,
			"vmB": models.PowerStateOff,
			"vmD": models.PowerStateOff,
			"vmE": models.PowerStateOff,
		}

		report, err := runner.Run(ctx, decl)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.ID).NotTo(BeEmpty())
		Expect(report.Outcomes).To(HaveLen(4))
		Expect(report.Count(models.OutcomeTransitioned)).To(Equal(2))
		Expect(report.Count(models.OutcomeAlreadyInDesiredState)).To(Equal(1))
		Expect(report.Count(models.OutcomeNotFound)).To(Equal(1))
		Expect(report.Failed()).To(BeZero())
		Expect(endpoint.closed).To(Equal(1))

		Expect(journal.runs).To(Equal([]string{report.ID}))
		Expect(journal.outcomes).To(Equal(report.Outcomes))
		Expect(journal.finished).To(Equal([]error{nil}))
		Expect(logs.FilterMessage("reconciliation finished").Len()).To(Equal(1))
	})

	It("should count both failure kinds as failed", func() {
		endpoint.add("vmA", models.PowerStateOff).failWith = "InsufficientResourcesFault"
		endpoint.add("vmB", models.PowerStateOn).rejectWith = errRejected
		endpoint.add("vmC", models.PowerStateOff)
		decl.VMs = map[string]models.PowerState{
			"vmA": models.PowerStateOn,
			"vmB": models.PowerStateOff,
			"vmC": models.PowerStateOn,
			"vmD": models.PowerStateOn,
		}

		report, err := runner.Run(ctx, decl)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Count(models.OutcomeTransitionFailed)).To(Equal(1))
		Expect(report.Count(models.OutcomeTaskCreationFailed)).To(Equal(1))
		Expect(report.Failed()).To(Equal(2))

		summary := logs.FilterMessage("reconciliation finished").All()
		Expect(summary).To(HaveLen(1))
		Expect(summary[0].ContextMap()).To(HaveKeyWithValue("failed", int64(2)))
	})

	It("should be idempotent", func() {
		endpoint.add("vmA", models.PowerStateOff)
		endpoint.add("vmB", models.PowerStateOn)
		decl.VMs = map[string]models.PowerState{"vmA": models.PowerStateOn, "vmB": models.PowerStateOff}

		_, err := runner.Run(ctx, decl)
		Expect(err).NotTo(HaveOccurred())

		before := endpoint.totalMutations()
		report, err := runner.Run(ctx, decl)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Count(models.OutcomeAlreadyInDesiredState)).To(Equal(2))
		Expect(endpoint.totalMutations()).To(Equal(before))
		Expect(connects).To(Equal(2))
		Expect(endpoint.closed).To(Equal(2))
	})

	It("should not reconcile excluded vms (scenario C)", func() {
		vm := endpoint.add("vmC", models.PowerStateOff)
		decl.VMs = map[string]models.PowerState{"vmC": models.PowerStateOn}
		decl.Excludes = []string{"vmC"}

		report, err := runner.Run(ctx, decl)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Outcomes).To(BeEmpty())
		Expect(report.Excluded).To(Equal([]string{"vmC"}))
		Expect(vm.mutations()).To(BeZero())
		Expect(logs.FilterMessage("machine is excluded").Len()).To(Equal(1))
	})

	It("should fail on connectivity errors without touching any vm", func() {
		connect = func(ctx context.Context, creds models.Credentials) (services.Endpoint, error) {
			return nil, errors.New("dial tcp: connection refused")
		}
		decl.VMs = map[string]models.PowerState{"vmA": models.PowerStateOn}

		report, err := runner.Run(ctx, decl)
		Expect(err).To(MatchError(services.ErrConnectivity))
		Expect(err.Error()).To(ContainSubstring("connection refused"))
		Expect(report.Outcomes).To(BeEmpty())
		Expect(journal.finished).To(HaveLen(1))
		Expect(journal.finished[0]).To(MatchError(services.ErrConnectivity))
	})

	It("should release the session when the inventory fails", func() {
		endpoint.inventoryErr = errors.New("NotAuthenticated")
		decl.VMs = map[string]models.PowerState{"vmA": models.PowerStateOn}

		_, err := runner.Run(ctx, decl)
		Expect(err).To(MatchError(services.ErrInventory))
		Expect(endpoint.closed).To(Equal(1))
	})

	It("should turn a panic into an unexpected error and release the session", func() {
		connect = func(ctx context.Context, creds models.Credentials) (services.Endpoint, error) {
			return panickingEndpoint{endpoint}, nil
		}
		decl.VMs = map[string]models.PowerState{"vmP": models.PowerStateOn}

		_, err := runner.Run(ctx, decl)
		Expect(err).To(MatchError(services.ErrUnexpected))
		Expect(endpoint.closed).To(Equal(1))
	})

	It("should keep running when the journal fails", func() {
		journal.err = errors.New("disk full")
		endpoint.add("vmA", models.PowerStateOn)
		decl.VMs = map[string]models.PowerState{"vmA": models.PowerStateOn}

		report, err := runner.Run(ctx, decl)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Outcomes).To(HaveLen(1))
		Expect(logs.FilterMessage("failed to record outcome").Len()).To(Equal(1))
	})
})
