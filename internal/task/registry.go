package task

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Matcher reports whether a pattern rule accepts a path.
type Matcher func(path string) bool

// Rule builds a task for any target path its Match accepts.
type Rule struct {
	Name        string // pattern shown in listings, e.g. "%.png"
	Description string
	Match       Matcher
	Build       func(target string) *Task
}

// ExtensionMatcher accepts paths whose extension is one of exts (case-insensitive).
func ExtensionMatcher(exts ...string) Matcher {
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		set[strings.ToLower(e)] = true
	}
	return func(path string) bool {
		if strings.HasSuffix(path, "/") {
			return false
		}
		return set[strings.ToLower(filepath.Ext(path))]
	}
}

// LooksLikePath reports whether arg should be offered to pattern rules.
func LooksLikePath(arg string) bool {
	if arg == "" {
		return false
	}
	return strings.ContainsRune(arg, filepath.Separator) || strings.ContainsRune(arg, '/') || filepath.Ext(arg) != ""
}

// Registry holds named tasks and ordered pattern rules.
type Registry struct {
	tasks map[string]*Task
	rules []Rule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]*Task)}
}

// Register adds a named task.
func (r *Registry) Register(t *Task) error {
	if t == nil || t.Name == "" {
		return fmt.Errorf("task name is empty")
	}
	if _, exists := r.tasks[t.Name]; exists {
		return fmt.Errorf("task %q already registered", t.Name)
	}
	r.tasks[t.Name] = t
	return nil
}

// AddRule appends a pattern rule. Rules are tried in the order they were added.
func (r *Registry) AddRule(rule Rule) error {
	if rule.Match == nil || rule.Build == nil {
		return fmt.Errorf("rule %q needs Match and Build", rule.Name)
	}
	for _, existing := range r.rules {
		if existing.Name == rule.Name {
			return fmt.Errorf("rule %q already registered", rule.Name)
		}
	}
	r.rules = append(r.rules, rule)
	return nil
}

// Resolve returns the task for a name or target path. Explicit names win over
// rules; among rules the first match wins.
func (r *Registry) Resolve(nameOrPath string) (*Task, error) {
	if t, ok := r.tasks[nameOrPath]; ok {
		return t, nil
	}
	if LooksLikePath(nameOrPath) {
		for _, rule := range r.rules {
			if rule.Match(nameOrPath) {
				t := rule.Build(nameOrPath)
				if t.Target == "" {
					t.Target = nameOrPath
				}
				if t.Name == "" {
					t.Name = nameOrPath
				}
				return t, nil
			}
		}
	}
	return nil, UnknownTask(nameOrPath)
}

// Entry is a listing row.
type Entry struct {
	Name        string
	Description string
	Pattern     bool
}

// Entries lists named tasks sorted by name, then rules in resolution order.
func (r *Registry) Entries() []Entry {
	names := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Entry, 0, len(names)+len(r.rules))
	for _, name := range names {
		out = append(out, Entry{Name: name, Description: r.tasks[name].Description})
	}
	for _, rule := range r.rules {
		out = append(out, Entry{Name: rule.Name, Description: rule.Description, Pattern: true})
	}
	return out
}
