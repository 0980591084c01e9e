package vsphere

import (
	"context"
	"fmt"

	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/property"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
	"go.uber.org/zap"

	"github.com/kubev2v/vm-power-agent/internal/models"
)

type machine struct {
	vm  *object.VirtualMachine
	log *zap.SugaredLogger
}

func (m *machine) PowerOn(ctx context.Context) (models.Task, error) {
	task, err := m.vm.PowerOn(ctx)
	if err != nil {
		return nil, err
	}
	m.log.Debugw("power on task submitted", "task", task.Reference().Value)
	return &vimTask{task: task}, nil
}

func (m *machine) Shutdown(ctx context.Context, policy models.ShutdownPolicy) (models.Task, error) {
	if policy == models.ShutdownPolicyForced {
		task, err := m.vm.PowerOff(ctx)
		if err != nil {
			return nil, err
		}
		m.log.Debugw("power off task submitted", "task", task.Reference().Value)
		return &vimTask{task: task}, nil
	}

	// ShutdownGuest has no task, the power state is watched instead.
	if err := m.vm.ShutdownGuest(ctx); err != nil {
		return nil, err
	}
	m.log.Debug("guest shutdown requested")
	return &guestShutdown{vm: m.vm}, nil
}

// vimTask reads the state of a vSphere task.
type vimTask struct {
	task *object.Task
}

func (t *vimTask) Status(ctx context.Context) (models.TaskInfo, error) {
	var task mo.Task
	pc := property.DefaultCollector(t.task.Client())
	if err := pc.RetrieveOne(ctx, t.task.Reference(), []string{"info"}, &task); err != nil {
		return models.TaskInfo{}, err
	}
	return taskInfo(task.Info), nil
}

func taskInfo(info types.TaskInfo) models.TaskInfo {
	switch info.State {
	case types.TaskInfoStateSuccess:
		return models.TaskInfo{State: models.TaskStateSucceeded}
	case types.TaskInfoStateError:
		return models.TaskInfo{State: models.TaskStateFailed, Error: faultMessage(info.Error)}
	default:
		return models.TaskInfo{State: models.TaskStatePending}
	}
}

func faultMessage(f *types.LocalizedMethodFault) string {
	if f == nil {
		return "task failed without error detail"
	}
	if f.LocalizedMessage != "" {
		return f.LocalizedMessage
	}
	if f.Fault != nil {
		return fmt.Sprintf("%T", f.Fault)
	}
	return "task failed without error detail"
}

// guestShutdown completes when the vm reports powered off.
type guestShutdown struct {
	vm *object.VirtualMachine
}

func (g *guestShutdown) Status(ctx context.Context) (models.TaskInfo, error) {
	state, err := g.vm.PowerState(ctx)
	if err != nil {
		return models.TaskInfo{}, err
	}
	if state == types.VirtualMachinePowerStatePoweredOff {
		return models.TaskInfo{State: models.TaskStateSucceeded}, nil
	}
	return models.TaskInfo{State: models.TaskStatePending}, nil
}
