// Package rules holds the declarative tables the engine scores against:
// checklist section templates, artifact matching rules and the subcontractor pool.
package rules

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"proposal-engine/internal/models"

	"gopkg.in/yaml.v3"
)

// DefaultSectionID names the template used for sections the catalog does not know.
const DefaultSectionID = "default"

type SectionTemplate struct {
	ID    string                 `yaml:"-" json:"id"`
	Title string                 `yaml:"title" json:"title"`
	Items []models.ChecklistItem `yaml:"items" json:"items"`
}

// Instantiate returns a fresh, all-incomplete copy of the template items.
func (t SectionTemplate) Instantiate() []models.ChecklistItem {
	items := make([]models.ChecklistItem, len(t.Items))
	for i, item := range t.Items {
		items[i] = item
		items[i].Completed = false
		if item.Dependencies != nil {
			items[i].Dependencies = append([]string(nil), item.Dependencies...)
		}
	}
	return items
}

// ArtifactRule says which documents can satisfy a named requirement.
// An empty Types list means any declared type is accepted.
type ArtifactRule struct {
	Name       string   `yaml:"name" json:"name"`
	Tags       []string `yaml:"tags" json:"tags"`
	Types      []string `yaml:"types,omitempty" json:"types,omitempty"`
	MaxAgeDays *int     `yaml:"maxAgeDays,omitempty" json:"maxAgeDays,omitempty"`
}

type Catalog struct {
	Sections   map[string]SectionTemplate      `yaml:"sections"`
	Artifacts  []ArtifactRule                  `yaml:"artifacts"`
	Candidates []models.SubcontractorCandidate `yaml:"candidates"`

	artifactIndex map[string]int
}

// Section returns the template for id. When id is unknown the default template
// is returned with ok=false.
func (c *Catalog) Section(id string) (SectionTemplate, bool) {
	if t, ok := c.Sections[id]; ok {
		t.ID = id
		return t, true
	}
	t := c.Sections[DefaultSectionID]
	t.ID = DefaultSectionID
	return t, false
}

// SectionIDs lists the known section ids in sorted order.
func (c *Catalog) SectionIDs() []string {
	ids := make([]string, 0, len(c.Sections))
	for id := range c.Sections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Artifact looks a rule up by name, ignoring case and surrounding whitespace.
func (c *Catalog) Artifact(name string) (ArtifactRule, bool) {
	key := normalizeName(name)
	if c.artifactIndex == nil {
		for _, a := range c.Artifacts {
			if normalizeName(a.Name) == key {
				return a, true
			}
		}
		return ArtifactRule{}, false
	}
	i, ok := c.artifactIndex[key]
	if !ok {
		return ArtifactRule{}, false
	}
	return c.Artifacts[i], true
}

// Candidate finds a pool entry by id.
func (c *Catalog) Candidate(id string) (models.SubcontractorCandidate, bool) {
	for _, cand := range c.Candidates {
		if cand.ID == id {
			return cand, true
		}
	}
	return models.SubcontractorCandidate{}, false
}

// index builds the artifact lookup table; call it before sharing the catalog.
func (c *Catalog) index() {
	c.artifactIndex = make(map[string]int, len(c.Artifacts))
	for i, a := range c.Artifacts {
		key := normalizeName(a.Name)
		if _, dup := c.artifactIndex[key]; !dup {
			c.artifactIndex[key] = i
		}
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Load reads and validates a YAML catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	c.index()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Marshal renders the catalog as YAML.
func (c *Catalog) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
