package vsphere

import (
	"context"
	"fmt"

	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/view"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/kubev2v/vm-power-agent/internal/models"
)

var vmProperties = []string{"name", "runtime.powerState"}

// Inventory returns every virtual machine of the vCenter, in the order the server returns them.
func (c *Client) Inventory(ctx context.Context) ([]models.InventoryEntry, error) {
	m := view.NewManager(c.client.Client)

	v, err := m.CreateContainerView(ctx, c.client.ServiceContent.RootFolder, []string{"VirtualMachine"}, true)
	if err != nil {
		return nil, fmt.Errorf("creating container view: %w", err)
	}
	defer func() {
		if err := v.Destroy(context.WithoutCancel(ctx)); err != nil {
			c.log.Warnw("failed to destroy container view", "error", err)
		}
	}()

	var vms []mo.VirtualMachine
	if err := v.Retrieve(ctx, []string{"VirtualMachine"}, vmProperties, &vms); err != nil {
		return nil, fmt.Errorf("retrieving virtual machines: %w", err)
	}

	entries := make([]models.InventoryEntry, 0, len(vms))
	for _, vm := range vms {
		entries = append(entries, models.InventoryEntry{
			Name:  vm.Name,
			State: powerState(vm.Runtime.PowerState),
			Machine: &machine{
				vm:  object.NewVirtualMachine(c.client.Client, vm.Reference()),
				log: c.log.With("vm", vm.Name),
			},
		})
	}
	return entries, nil
}

// powerState maps vSphere states to on/off. A suspended vm is off: it resumes
// on power on and has no running guest to shut down.
func powerState(s types.VirtualMachinePowerState) models.PowerState {
	if s == types.VirtualMachinePowerStatePoweredOn {
		return models.PowerStateOn
	}
	return models.PowerStateOff
}
