package commands

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrDuplicateCommand is returned when a name or alias is taken.
var ErrDuplicateCommand = errors.New("command already registered")

// Registry maps command names and aliases to commands.
// Commands register from init, so it is not safe for concurrent writes.
type Registry struct {
	byName  map[string]Command
	aliases map[string]string // alias -> primary name
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]Command),
		aliases: make(map[string]string),
	}
}

// Register adds c under its name and aliases.
// Nothing is registered if any of them is already taken.
func (r *Registry) Register(c Command) error {
	names := append([]string{c.Name()}, c.Aliases()...)
	for _, n := range names {
		if r.taken(n) {
			return fmt.Errorf("%w: %s", ErrDuplicateCommand, n)
		}
	}

	r.byName[c.Name()] = c
	for _, alias := range c.Aliases() {
		r.aliases[alias] = c.Name()
	}
	return nil
}

func (r *Registry) taken(name string) bool {
	_, isName := r.byName[name]
	_, isAlias := r.aliases[name]
	return isName || isAlias
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	if primary, ok := r.aliases[name]; ok {
		name = primary
	}
	cmd, ok := r.byName[name]
	return cmd, ok
}

// All returns the registered commands sorted by primary name.
func (r *Registry) All() []Command {
	result := make([]Command, 0, len(r.byName))
	for _, name := range slices.Sorted(maps.Keys(r.byName)) {
		result = append(result, r.byName[name])
	}
	return result
}

// DefaultRegistry holds every built-in command.
var DefaultRegistry = NewRegistry()

// Register adds c to DefaultRegistry and panics on a clash.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
