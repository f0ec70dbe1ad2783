// Package catalog holds the fixed demo scenarios and the customer profiles
// they reference.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/berth-dev/playback/internal/playback"
)

// ErrDuplicateID is returned when two scenarios or two profiles share an id.
var ErrDuplicateID = errors.New("duplicate id")

// ProfileEvent is one entry of a customer's activity timeline.
type ProfileEvent struct {
	When string `yaml:"when"`
	What string `yaml:"what"`
}

// Profile is the customer shown in the profile overlay.
type Profile struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	City     string         `yaml:"city"`
	Tags     []string       `yaml:"tags"`
	Timeline []ProfileEvent `yaml:"timeline"`
}

type document struct {
	Scenarios []playback.Scenario `yaml:"scenarios"`
	Profiles  []Profile           `yaml:"profiles"`
}

// Catalog is an immutable set of scenarios and profiles.
type Catalog struct {
	scenarios []playback.Scenario
	byID      map[string]int
	profiles  map[string]Profile
}

// Load decodes and validates a catalog document.
func Load(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	c := &Catalog{
		scenarios: doc.Scenarios,
		byID:      make(map[string]int, len(doc.Scenarios)),
		profiles:  make(map[string]Profile, len(doc.Profiles)),
	}
	for i, sc := range doc.Scenarios {
		if err := sc.Validate(); err != nil {
			return nil, err
		}
		if _, ok := c.byID[sc.ID]; ok {
			return nil, fmt.Errorf("scenario %s: %w", sc.ID, ErrDuplicateID)
		}
		c.byID[sc.ID] = i
	}
	for _, p := range doc.Profiles {
		if _, ok := c.profiles[p.ID]; ok {
			return nil, fmt.Errorf("profile %s: %w", p.ID, ErrDuplicateID)
		}
		c.profiles[p.ID] = p
	}
	return c, nil
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the embedded demo catalog. It panics if the embedded
// document is invalid, which the package tests rule out.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(scenariosYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded catalog: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

// Lookup returns a copy of the scenario with the given id.
func (c *Catalog) Lookup(id string) (playback.Scenario, bool) {
	i, ok := c.byID[id]
	if !ok {
		return playback.Scenario{}, false
	}
	return cloneScenario(c.scenarios[i]), true
}

// List returns copies of all scenarios in catalog order.
func (c *Catalog) List() []playback.Scenario {
	out := make([]playback.Scenario, len(c.scenarios))
	for i, sc := range c.scenarios {
		out[i] = cloneScenario(sc)
	}
	return out
}

// IDs returns the scenario ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.scenarios))
	for i, sc := range c.scenarios {
		ids[i] = sc.ID
	}
	return ids
}

// Profile returns the customer profile with the given id.
func (c *Catalog) Profile(id string) (Profile, bool) {
	p, ok := c.profiles[id]
	if !ok {
		return Profile{}, false
	}
	p.Tags = slices.Clone(p.Tags)
	p.Timeline = slices.Clone(p.Timeline)
	return p, true
}

func cloneScenario(sc playback.Scenario) playback.Scenario {
	steps := make([]playback.Step, len(sc.Steps))
	for i, st := range sc.Steps {
		if st.Message != nil {
			m := st.Message.Clone()
			st.Message = &m
		}
		if st.Patch != nil {
			p := st.Patch.Clone()
			st.Patch = &p
		}
		steps[i] = st
	}
	sc.Steps = steps
	return sc
}
