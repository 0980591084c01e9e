package config

import "time"

const (
	DefaultDeclarationFile string = "vmManagerConfig.json"
)

//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Reconcile
type Configuration struct {
	DeclarationPath string    `debugmap:"visible"`
	LogFile         string    `debugmap:"visible"`
	DataFolder      string    `debugmap:"visible"`
	Reconcile       Reconcile `debugmap:"visible"`

	// Log
	LogFormat string `debugmap:"visible" default:"console"`
	LogLevel  string `debugmap:"visible" default:"info"`
}

type Reconcile struct {
	PollInterval   time.Duration `debugmap:"visible" default:"1s"`
	TaskTimeout    time.Duration `debugmap:"visible"`
	ShutdownPolicy string        `debugmap:"visible" default:"graceful"`
	Workers        int           `debugmap:"visible" default:"1"`
	Insecure       bool          `debugmap:"visible" default:"true"`
}
