package rules

import (
	"fmt"
	"strings"

	"proposal-engine/internal/models"
)

// ValidationError lists every problem found in a catalog.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid catalog: %s", strings.Join(e.Problems, "; "))
}

// Validate checks referential integrity and value ranges of the whole catalog.
func (c *Catalog) Validate() error {
	var problems []string
	add := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if _, ok := c.Sections[DefaultSectionID]; !ok {
		add("section %q is required", DefaultSectionID)
	}
	for _, id := range c.SectionIDs() {
		for _, p := range validateSection(c.Sections[id].Items) {
			add("section %s: %s", id, p)
		}
	}

	seenArtifacts := make(map[string]bool)
	for _, a := range c.Artifacts {
		key := normalizeName(a.Name)
		switch {
		case key == "":
			add("artifact with empty name")
		case seenArtifacts[key]:
			add("artifact %q defined twice", a.Name)
		}
		seenArtifacts[key] = true
		if len(a.Tags) == 0 {
			add("artifact %q has no tags", a.Name)
		}
		if a.MaxAgeDays != nil && *a.MaxAgeDays < 0 {
			add("artifact %q has negative maxAgeDays", a.Name)
		}
	}

	seenCandidates := make(map[string]bool)
	for _, cand := range c.Candidates {
		if cand.ID == "" {
			add("candidate %q has no id", cand.Name)
			continue
		}
		if seenCandidates[cand.ID] {
			add("candidate %s defined twice", cand.ID)
		}
		seenCandidates[cand.ID] = true
		for _, p := range cand.Validate() {
			add("candidate %s: %s", cand.ID, p)
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func validateSection(items []models.ChecklistItem) []string {
	var problems []string
	ids := make(map[string]bool, len(items))
	for _, item := range items {
		if item.ID == "" {
			problems = append(problems, "item with empty id")
			continue
		}
		if ids[item.ID] {
			problems = append(problems, fmt.Sprintf("duplicate item %s", item.ID))
		}
		ids[item.ID] = true
		if !item.ActionKind.Valid() {
			problems = append(problems, fmt.Sprintf("item %s has unknown actionKind %q", item.ID, item.ActionKind))
		}
	}
	for _, item := range items {
		for _, dep := range item.Dependencies {
			if dep == item.ID {
				problems = append(problems, fmt.Sprintf("item %s depends on itself", item.ID))
			} else if !ids[dep] {
				problems = append(problems, fmt.Sprintf("item %s depends on unknown item %s", item.ID, dep))
			}
		}
	}
	if cycle := findCycle(items); cycle != nil {
		problems = append(problems, fmt.Sprintf("dependency cycle %s", strings.Join(cycle, " -> ")))
	}
	return problems
}

// findCycle returns one dependency cycle as a path, or nil.
func findCycle(items []models.ChecklistItem) []string {
	deps := make(map[string][]string, len(items))
	for _, item := range items {
		deps[item.ID] = item.Dependencies
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(items))
	var stack []string

	var visit func(id string) []string
	visit = func(id string) []string {
		state[id] = visiting
		stack = append(stack, id)
		for _, dep := range deps[id] {
			if dep == id {
				continue
			}
			switch state[dep] {
			case visiting:
				for i, s := range stack {
					if s == dep {
						return append(append([]string(nil), stack[i:]...), dep)
					}
				}
			case unvisited:
				if _, known := deps[dep]; !known {
					continue
				}
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
		return nil
	}

	for _, item := range items {
		if state[item.ID] == unvisited {
			if cycle := visit(item.ID); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
