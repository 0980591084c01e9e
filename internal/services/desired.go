package services

import (
	"sort"

	"go.uber.org/zap"

	"github.com/kubev2v/vm-power-agent/internal/models"
)

// DesiredStateSet returns the declared entries that are not excluded, ordered by vm name,
// and the excluded names that were declared.
func DesiredStateSet(decl *models.Declaration, log *zap.SugaredLogger) ([]models.DesiredEntry, []string) {
	excluded := make(map[string]struct{}, len(decl.Excludes))
	for _, name := range decl.Excludes {
		excluded[name] = struct{}{}
	}

	names := make([]string, 0, len(decl.VMs))
	for name := range decl.VMs {
		names = append(names, name)
	}
	sort.Strings(names)

	var skipped []string
	entries := make([]models.DesiredEntry, 0, len(names))
	for _, name := range names {
		if _, ok := excluded[name]; ok {
			log.Infow("machine is excluded", "vm", name)
			skipped = append(skipped, name)
			continue
		}
		entries = append(entries, models.DesiredEntry{Name: name, State: decl.VMs[name]})
	}

	return entries, skipped
}
