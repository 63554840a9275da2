package roster

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrEmptyRoster = errors.New("roster has no members")

//go:embed members.yaml
var defaultRoster []byte

// Member is one person on the roster. Members are identified by their
// position in the roster.
type Member struct {
	Name        string            `yaml:"name"`
	Role        string            `yaml:"role"`
	Description string            `yaml:"description"`
	Image       string            `yaml:"image"`
	Socials     map[string]string `yaml:"socials"`
}

type Roster struct {
	Members []Member `yaml:"members"`
}

// Load decodes a YAML roster from r and validates it.
func Load(r io.Reader) (*Roster, error) {
	var ros Roster
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ros); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyRoster
		}
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	if err := ros.Validate(); err != nil {
		return nil, err
	}
	return &ros, nil
}

func LoadFile(path string) (*Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the roster built into the client.
func Default() *Roster {
	ros, err := Load(bytes.NewReader(defaultRoster))
	if err != nil {
		panic("roster: embedded roster is invalid: " + err.Error())
	}
	return ros
}

func (r *Roster) Validate() error {
	if len(r.Members) == 0 {
		return ErrEmptyRoster
	}
	for i, m := range r.Members {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("member %d: name is required", i)
		}
		if strings.TrimSpace(m.Role) == "" {
			return fmt.Errorf("member %d (%s): role is required", i, m.Name)
		}
	}
	return nil
}

// Roles returns the distinct roles in roster order.
func (r *Roster) Roles() []string {
	seen := make(map[string]bool, len(r.Members))
	var roles []string
	for _, m := range r.Members {
		key := strings.ToLower(m.Role)
		if seen[key] {
			continue
		}
		seen[key] = true
		roles = append(roles, m.Role)
	}
	return roles
}
