package declaration

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"sigs.k8s.io/yaml"

	"github.com/kubev2v/vm-power-agent/internal/models"
)

// ErrInvalidDeclaration is returned for any missing or malformed part of a declaration.
var ErrInvalidDeclaration = errors.New("invalid declaration")

type document struct {
	VCenter  vcenter               `json:"vcenter_data" toml:"vcenter_data"`
	VMInfo   map[string]stateValue `json:"vm_info" toml:"vm_info"`
	Excludes []string              `json:"excludes" toml:"excludes"`
}

type vcenter struct {
	Hostname string `json:"hostname" toml:"hostname"`
	User     string `json:"user" toml:"user"`
	Password string `json:"password" toml:"password"`
}

// stateValue is a declared power state. YAML 1.1 reads unquoted on/off as
// booleans, which reach the decoder as true/false or "true"/"false".
type stateValue string

func (s *stateValue) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return s.UnmarshalTOML(v)
}

func (s *stateValue) UnmarshalTOML(v any) error {
	switch t := v.(type) {
	case string:
		switch t {
		case "true":
			*s = "on"
		case "false":
			*s = "off"
		default:
			*s = stateValue(t)
		}
	case bool:
		*s = "off"
		if t {
			*s = "on"
		}
	default:
		return fmt.Errorf("power state must be a string, got %v", v)
	}
	return nil
}

// Load reads the declaration at path. Files ending in .toml are decoded as TOML,
// everything else as YAML or JSON.
func Load(path string) (*models.Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDeclaration, err)
	}

	var doc document
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = decodeTOML(data, &doc)
	} else {
		err = yaml.UnmarshalStrict(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", ErrInvalidDeclaration, path, err)
	}

	return doc.toModel()
}

func decodeTOML(data []byte, doc *document) error {
	meta, err := toml.Decode(string(data), doc)
	if err != nil {
		return err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys: %v", undecoded)
	}
	return nil
}

func (d document) toModel() (*models.Declaration, error) {
	var missing []string
	if d.VCenter.Hostname == "" {
		missing = append(missing, "vcenter_data.hostname")
	}
	if d.VCenter.User == "" {
		missing = append(missing, "vcenter_data.user")
	}
	if d.VCenter.Password == "" {
		missing = append(missing, "vcenter_data.password")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidDeclaration, strings.Join(missing, ", "))
	}

	vms := make(map[string]models.PowerState, len(d.VMInfo))
	for name, state := range d.VMInfo {
		if name == "" {
			return nil, fmt.Errorf("%w: vm_info contains an empty vm name", ErrInvalidDeclaration)
		}
		s, err := models.ParsePowerState(string(state))
		if err != nil {
			return nil, fmt.Errorf("%w: vm_info.%s: %w", ErrInvalidDeclaration, name, err)
		}
		vms[name] = s
	}

	return &models.Declaration{
		VCenter: models.Credentials{
			Hostname: d.VCenter.Hostname,
			Username: d.VCenter.User,
			Password: d.VCenter.Password,
		},
		VMs:      vms,
		Excludes: d.Excludes,
	}, nil
}
