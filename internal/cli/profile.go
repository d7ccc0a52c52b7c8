// Package cli holds the helpers behind the hackle command: saved user
// profiles, property parsing and output rendering.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/user"
	"gopkg.in/yaml.v3"
)

// Profiles is the file of saved test users.
type Profiles struct {
	DefaultProfile string             `yaml:"default_profile"`
	Users          map[string]Profile `yaml:"users"`
}

// Profile represents one saved user
type Profile struct {
	Identifiers map[string]string `yaml:"identifiers"`
	Properties  map[string]any    `yaml:"properties,omitempty"`
}

// GetProfilesPath returns the path to the profiles file
func GetProfilesPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".hackle", "profiles.yaml"), nil
}

// LoadProfiles loads the profiles from path. A missing file yields no profiles.
func LoadProfiles(path string) (*Profiles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Profiles{Users: make(map[string]Profile)}, nil
		}
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}

	var p Profiles
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profiles file: %w", err)
	}
	if p.Users == nil {
		p.Users = make(map[string]Profile)
	}
	return &p, nil
}

// SaveProfiles saves the profiles to path
func SaveProfiles(path string, p *Profiles) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create profiles directory: %w", err)
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write profiles file: %w", err)
	}
	return nil
}

// Lookup returns the named profile, or the default profile when name is
// empty. ok is false when neither exists.
func (p *Profiles) Lookup(name string) (Profile, bool, error) {
	if name == "" {
		name = p.DefaultProfile
		if name == "" {
			return Profile{}, false, nil
		}
	}
	profile, ok := p.Users[name]
	if !ok {
		return Profile{}, false, fmt.Errorf("profile '%s' not found", name)
	}
	return profile, true, nil
}

// Options converts the profile into user options. Options applied after
// these override the profile.
func (p Profile) Options() []user.Option {
	opts := make([]user.Option, 0, len(p.Identifiers)+1)
	for identifierType, value := range p.Identifiers {
		opts = append(opts, user.WithIdentifier(identifierType, value))
	}
	opts = append(opts, user.WithProperties(p.Properties))
	return opts
}
