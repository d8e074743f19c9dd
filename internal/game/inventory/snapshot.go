package inventory

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/diceydrinks/internal/game/rules"
)

// SupportedVersion is the only snapshot file version Load accepts.
const SupportedVersion = 1

// Pools groups the three top-level inventory categories.
type Pools struct {
	Spirits   []Item `yaml:"spirits"`
	Mixers    []Item `yaml:"mixers"`
	Additives []Item `yaml:"additives"`
}

// Snapshot is the complete, read-only data a build rolls against.
type Snapshot struct {
	Version   int               `yaml:"version"`
	Inventory Pools             `yaml:"inventory"`
	Subpools  map[string][]Item `yaml:"subpools"`
	Secondary map[string][]Item `yaml:"secondary"`
	Rules     rules.RuleSet     `yaml:"rules"`
}

// Pool returns the in-rotation candidates for c. Spirit families are only
// returned for CategorySpiritFamilies and never for CategorySpirits.
//
// Postcondition: every returned item has InRotation == true.
func (s *Snapshot) Pool(c Category) []Item {
	switch c {
	case CategorySpiritFamilies:
		var out []Item
		for _, it := range InRotation(s.Inventory.Spirits) {
			if it.IsFamily() {
				out = append(out, it)
			}
		}
		return out
	case CategorySpirits:
		var out []Item
		for _, it := range InRotation(s.Inventory.Spirits) {
			if !it.IsFamily() {
				out = append(out, it)
			}
		}
		return out
	case CategoryMixers:
		return InRotation(s.Inventory.Mixers)
	case CategoryAdditives:
		return InRotation(s.Inventory.Additives)
	default:
		return nil
	}
}

// SubpoolItems returns the in-rotation brands of the subpool with the given id.
func (s *Snapshot) SubpoolItems(id string) []Item {
	return InRotation(s.Subpools[id])
}

// SecondaryItems returns the in-rotation entries of the secondary pool with
// the given id.
func (s *Snapshot) SecondaryItems(id string) []Item {
	return InRotation(s.Secondary[id])
}

// Parse decodes a YAML snapshot.
//
// Postcondition: returns a Snapshot with Version == SupportedVersion or an error.
func Parse(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing inventory snapshot: %w", err)
	}
	if s.Version != SupportedVersion {
		return nil, fmt.Errorf("unsupported inventory snapshot version %d (want %d)", s.Version, SupportedVersion)
	}
	return &s, nil
}

// Load reads and parses the YAML snapshot at path.
//
// Precondition: path is a readable file.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("inventory snapshot %q not found: %w", path, err)
		}
		return nil, fmt.Errorf("reading inventory snapshot %q: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
