package services

import "errors"

var (
	ErrConnectivity = errors.New("cannot connect to endpoint")
	ErrInventory    = errors.New("cannot read inventory")
	ErrTaskTimeout  = errors.New("task did not complete in time")
	ErrUnexpected   = errors.New("unexpected failure")
)
