package seed

import (
	"fmt"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Preset is a named seeding profile.
type Preset struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Users       int    `yaml:"users"`
	Posts       int    `yaml:"posts"`
	Clean       bool   `yaml:"clean"`
	SkipBcrypt  bool   `yaml:"skip_bcrypt"`
	MaxDays     int    `yaml:"max_days"`
}

// builtInPresets are the seeding profiles shipped with the binary.
const builtInPresets = `
presets:
  - name: Minimal
    description: A handful of users for quick manual testing.
    users: 5
    posts: 10
    clean: true
    max_days: 7
  - name: Standard
    description: The default development dataset.
    users: 50
    posts: 200
    clean: true
    max_days: 90
  - name: MegaPopulated
    description: A large dataset for pagination and performance testing.
    users: 500
    posts: 5000
    clean: true
    skip_bcrypt: true
    max_days: 365
`

// LoadPresets parses the preset catalog from YAML.
func LoadPresets(data []byte) ([]Preset, error) {
	var doc struct {
		Presets []Preset `yaml:"presets"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	return doc.Presets, nil
}

// FindPreset looks up a built-in preset by name.
func FindPreset(name string) (*Preset, error) {
	presets, err := LoadPresets([]byte(builtInPresets))
	if err != nil {
		return nil, err
	}
	for i := range presets {
		if presets[i].Name == name {
			return &presets[i], nil
		}
	}
	return nil, fmt.Errorf("unknown preset %q", name)
}

// ApplyPreset runs the seeder with a named preset's options.
func ApplyPreset(db *gorm.DB, name string) error {
	preset, err := FindPreset(name)
	if err != nil {
		return err
	}
	return Seed(db, Options{
		NumUsers:    preset.Users,
		NumPosts:    preset.Posts,
		ShouldClean: preset.Clean,
		SkipBcrypt:  preset.SkipBcrypt,
		MaxDays:     preset.MaxDays,
	})
}
