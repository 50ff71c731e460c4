package config

import (
	"time"

	"calcforge/internal/changelog"
)

// ChangelogConfig configures changelog generation.
type ChangelogConfig struct {
	Output string `yaml:"output"`
	Repo   string `yaml:"repo"`
	Head   string `yaml:"head"`

	// Types replaces the default commit type catalog when non-empty.
	Types        []changelog.Type `yaml:"types,omitempty"`
	IncludeOther bool             `yaml:"include_other"`

	// Concurrency bounds parallel git log invocations.
	Concurrency int `yaml:"concurrency"`

	// Debounce is how long `changelog watch` waits for repository
	// activity to settle before regenerating.
	Debounce string `yaml:"debounce"`

	PreviewStyle string `yaml:"preview_style"` // auto, dark, light, notty
	PreviewWidth int    `yaml:"preview_width"`
}

// Catalog builds the commit type catalog described by the config.
func (c *ChangelogConfig) Catalog() (*changelog.Catalog, error) {
	types := c.Types
	if len(types) == 0 {
		types = changelog.DefaultTypes
	}
	return changelog.NewCatalog(types, c.IncludeOther)
}

// DebounceDuration parses Debounce, defaulting to 500ms.
func (c *ChangelogConfig) DebounceDuration() (time.Duration, error) {
	return parseDuration("changelog.debounce", c.Debounce, 500*time.Millisecond)
}
