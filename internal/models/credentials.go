package models

// Credentials holds the vCenter connection data of a declaration.
type Credentials struct {
	Hostname string
	Username string
	Password string
}
