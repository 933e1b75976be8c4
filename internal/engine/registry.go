package engine

import (
	"fmt"
	"sort"
)

// Registry maps lesson titles to module implementations. It is built once at
// startup; resolution failures are wiring bugs, surfaced as errors rather
// than compared against title strings at call sites.
type Registry struct {
	modules map[string]LessonModule
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]LessonModule)}
}

// Register binds a lesson title to a module. Registering the same title twice
// is an error.
func (r *Registry) Register(title string, m LessonModule) error {
	if m == nil {
		return fmt.Errorf("register %q: nil module", title)
	}
	if _, exists := r.modules[title]; exists {
		return fmt.Errorf("register %q: already registered", title)
	}
	r.modules[title] = m
	return nil
}

// Resolve returns the module bound to title.
func (r *Registry) Resolve(title string) (LessonModule, error) {
	m, ok := r.modules[title]
	if !ok {
		return nil, fmt.Errorf("no module registered for lesson %q", title)
	}
	return m, nil
}

// Titles returns the registered lesson titles, sorted.
func (r *Registry) Titles() []string {
	titles := make([]string, 0, len(r.modules))
	for t := range r.modules {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles
}
