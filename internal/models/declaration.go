package models

// Declaration is the operator supplied desired state, before exclusions are applied.
type Declaration struct {
	VCenter  Credentials
	VMs      map[string]PowerState
	Excludes []string
}

// DesiredEntry is the target power state of one virtual machine.
type DesiredEntry struct {
	Name  string
	State PowerState
}
