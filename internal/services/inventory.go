package services

import (
	"go.uber.org/zap"

	"github.com/kubev2v/vm-power-agent/internal/models"
)

// Snapshot is the inventory of one run, indexed by vm name.
// Names are not unique in vCenter: when several vms share a name the first one
// returned by the endpoint wins.
type Snapshot struct {
	entries []models.InventoryEntry
	index   map[string]int
}

func NewSnapshot(entries []models.InventoryEntry, log *zap.SugaredLogger) *Snapshot {
	s := &Snapshot{
		entries: entries,
		index:   make(map[string]int, len(entries)),
	}

	counts := make(map[string]int)
	for i, e := range entries {
		counts[e.Name]++
		if _, ok := s.index[e.Name]; !ok {
			s.index[e.Name] = i
		}
	}
	for i, e := range entries {
		if n := counts[e.Name]; n > 1 && s.index[e.Name] == i {
			log.Warnw("several machines share the same name, using the first one", "vm", e.Name, "count", n)
		}
	}

	return s
}

// Lookup returns the first entry named name.
func (s *Snapshot) Lookup(name string) (models.InventoryEntry, bool) {
	i, ok := s.index[name]
	if !ok {
		return models.InventoryEntry{}, false
	}
	return s.entries[i], true
}

func (s *Snapshot) Len() int {
	return len(s.entries)
}
