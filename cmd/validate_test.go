package cmd

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/vm-power-agent/internal/config"
)

var _ = Describe("validateConfiguration", func() {
	var cfg *config.Configuration

	BeforeEach(func() {
		cfg = config.NewConfigurationWithOptionsAndDefaults(config.WithDeclarationPath("vmManagerConfig.json"))
	})

	It("should accept the defaults", func() {
		Expect(validateConfiguration(cfg)).To(Succeed())
	})

	It("should accept a bounded task timeout", func() {
		cfg.Reconcile.TaskTimeout = 10 * time.Minute
		Expect(validateConfiguration(cfg)).To(Succeed())
	})

	DescribeTable("should reject",
		func(mutate func(c *config.Configuration)) {
			mutate(cfg)
			Expect(validateConfiguration(cfg)).NotTo(Succeed())
		},
		Entry("an unknown log format", func(c *config.Configuration) { c.LogFormat = "text" }),
		Entry("an unknown log level", func(c *config.Configuration) { c.LogLevel = "verbose" }),
		Entry("an empty declaration path", func(c *config.Configuration) { c.DeclarationPath = "" }),
		Entry("an unknown shutdown policy", func(c *config.Configuration) { c.Reconcile.ShutdownPolicy = "hard" }),
		Entry("a zero poll interval", func(c *config.Configuration) { c.Reconcile.PollInterval = 0 }),
		Entry("a negative task timeout", func(c *config.Configuration) { c.Reconcile.TaskTimeout = -time.Second }),
		Entry("zero workers", func(c *config.Configuration) { c.Reconcile.Workers = 0 }),
	)
})
