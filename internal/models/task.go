package models

import "context"

// TaskState is the status of an asynchronous power transition.
type TaskState string

const (
	TaskStatePending   TaskState = "pending"
	TaskStateSucceeded TaskState = "succeeded"
	TaskStateFailed    TaskState = "failed"
)

func (t TaskState) IsTerminal() bool {
	return t == TaskStateSucceeded || t == TaskStateFailed
}

// TaskInfo is one observation of a task. Error is only set when State is TaskStateFailed.
type TaskInfo struct {
	State TaskState
	Error string
}

// Task is a submitted power transition.
type Task interface {
	Status(ctx context.Context) (TaskInfo, error)
}

// Machine is the operation handle of a virtual machine in the inventory.
// A nil Task with an error means the endpoint rejected the request.
type Machine interface {
	PowerOn(ctx context.Context) (Task, error)
	Shutdown(ctx context.Context, policy ShutdownPolicy) (Task, error)
}

// InventoryEntry is a virtual machine as reported by the endpoint.
type InventoryEntry struct {
	Name    string
	State   PowerState
	Machine Machine
}
