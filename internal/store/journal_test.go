package store_test

import (
	"context"
	"database/sql"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/vm-power-agent/internal/models"
	"github.com/kubev2v/vm-power-agent/internal/store"
	"github.com/kubev2v/vm-power-agent/internal/store/migrations"
)

var _ = Describe("Journal", func() {
	var (
		ctx     context.Context
		db      *sql.DB
		s       *store.Store
		journal *store.Journal
		report  *models.RunReport
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())

		err = migrations.Run(ctx, db)
		Expect(err).NotTo(HaveOccurred())

		s = store.NewStore(db)
		journal = store.NewJournal(s)

		report = &models.RunReport{
			ID:        "2f1c6b8e-3a5d-4c7e-9b2a-1d4e6f8a0b3c",
			StartedAt: time.Now().Add(-time.Minute),
		}
	})

	AfterEach(func() {
		if db != nil {
			_ = db.Close()
		}
	})

	Describe("migrations", func() {
		It("should be idempotent", func() {
			Expect(migrations.Run(ctx, db)).To(Succeed())

			v, err := migrations.Version(ctx, db)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(2))
		})
	})

	Describe("runs", func() {
		It("should create an unfinished run", func() {
			Expect(journal.CreateRun(ctx, report, "vc.example.com")).To(Succeed())

			run, err := s.Runs().Get(ctx, report.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(run.VCenter).To(Equal("vc.example.com"))
			Expect(run.FinishedAt).To(BeNil())
			Expect(run.Error).To(BeEmpty())
		})

		It("should finish a run with its error", func() {
			Expect(journal.CreateRun(ctx, report, "vc.example.com")).To(Succeed())
			report.FinishedAt = time.Now()

			Expect(journal.FinishRun(ctx, report, errors.New("cannot connect to endpoint"))).To(Succeed())

			run, err := s.Runs().Get(ctx, report.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(run.FinishedAt).NotTo(BeNil())
			Expect(run.Error).To(Equal("cannot connect to endpoint"))
		})

		It("should return ErrNotFound for an unknown run", func() {
			_, err := s.Runs().Get(ctx, "missing")
			Expect(err).To(Equal(store.ErrNotFound))

			err = s.Runs().Finish(ctx, "missing", time.Now(), "")
			Expect(err).To(Equal(store.ErrNotFound))
		})

		It("should list the newest runs first", func() {
			older := &models.RunReport{ID: "older", StartedAt: time.Now().Add(-time.Hour)}
			Expect(journal.CreateRun(ctx, older, "vc")).To(Succeed())
			Expect(journal.CreateRun(ctx, report, "vc")).To(Succeed())

			runs, err := s.Runs().List(ctx, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(2))
			Expect(runs[0].ID).To(Equal(report.ID))
			Expect(runs[1].ID).To(Equal("older"))
		})
	})

	Describe("outcomes", func() {
		BeforeEach(func() {
			Expect(journal.CreateRun(ctx, report, "vc.example.com")).To(Succeed())
		})

		It("should keep the outcomes in saved order", func() {
			saved := []models.Outcome{
				{VM: "vmB", Kind: models.OutcomeAlreadyInDesiredState, Desired: models.PowerStateOff, Observed: models.PowerStateOff, Action: models.ActionNone},
				{VM: "vmA", Kind: models.OutcomeTransitioned, Desired: models.PowerStateOn, Observed: models.PowerStateOff, Action: models.ActionPowerOn, Duration: 1500 * time.Millisecond},
				{VM: "vmD", Kind: models.OutcomeNotFound, Desired: models.PowerStateOff, Action: models.ActionNone},
				{VM: "vmE", Kind: models.OutcomeTransitionFailed, Desired: models.PowerStateOff, Observed: models.PowerStateOn, Action: models.ActionShutdownGuest, Detail: "VMware Tools is not running"},
			}
			for _, o := range saved {
				Expect(journal.SaveOutcome(ctx, report.ID, o)).To(Succeed())
			}

			outcomes, err := s.Outcomes().List(ctx, report.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcomes).To(Equal(saved))
		})
	})
})
