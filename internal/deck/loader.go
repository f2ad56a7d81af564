// internal/deck/loader.go
package deck

import (
	"encoding/json"
	"fmt"
	"os"
)

// Definition is the external deck description loaded once before the server
// accepts connections: ordered suit names and ordered rank names.
type Definition struct {
	Suits []string `json:"suits"`
	Ranks []string `json:"ranks"`
}

// LoadDefinition reads and validates a deck definition file. Any problem here
// is a fatal startup error for the caller.
func LoadDefinition(path string) (Definition, error) {
	var def Definition
	data, err := os.ReadFile(path)
	if err != nil {
		return def, fmt.Errorf("failed to read deck definition %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &def); err != nil {
		return def, fmt.Errorf("failed to parse deck definition %s: %w", path, err)
	}
	if err := def.Validate(); err != nil {
		return def, fmt.Errorf("invalid deck definition %s: %w", path, err)
	}
	return def, nil
}

// Validate rejects empty or duplicated suit/rank names.
func (def Definition) Validate() error {
	if len(def.Suits) == 0 {
		return fmt.Errorf("no suits defined")
	}
	if len(def.Ranks) == 0 {
		return fmt.Errorf("no ranks defined")
	}
	if err := checkNames("suit", def.Suits); err != nil {
		return err
	}
	return checkNames("rank", def.Ranks)
}

func checkNames(kind string, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" {
			return fmt.Errorf("empty %s name", kind)
		}
		if seen[n] {
			return fmt.Errorf("duplicate %s name %q", kind, n)
		}
		seen[n] = true
	}
	return nil
}
