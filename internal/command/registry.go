package command

import (
	"fmt"
	"sort"
	"sync"
)

// Tier is a command precedence level.
type Tier int

const (
	// TierDefault holds built-in commands.
	TierDefault Tier = iota
	// TierPlugin holds commands registered by plugins.
	TierPlugin
	// TierPatch holds host-specific fixes. It always wins.
	TierPatch

	tierCount
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierDefault:
		return "default"
	case TierPlugin:
		return "plugin"
	case TierPatch:
		return "patch"
	case TierNative:
		return "native"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// TierNative is reported by Lookup when no tier answers and Resolve falls
// back to the host's native command.
const TierNative Tier = -1

// Registry maps command names to factories per tier.
type Registry struct {
	mu    sync.RWMutex
	env   Env
	tiers [tierCount]map[string]Factory
}

// NewRegistry creates an empty registry whose commands are bound to env.
func NewRegistry(env Env) *Registry {
	r := &Registry{env: env}
	for i := range r.tiers {
		r.tiers[i] = make(map[string]Factory)
	}
	return r
}

// Register installs a factory for name at tier, replacing any previous
// registration at that tier. A nil factory is ignored.
// An unknown tier is a programming error and panics.
func (r *Registry) Register(tier Tier, name string, f Factory) {
	if tier < TierDefault || tier >= tierCount {
		panic(fmt.Sprintf("command: register %q at unknown %s", name, tier))
	}
	if f == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tiers[tier][name] = f
}

// Unregister removes name from tier. Returns false if it was not there.
func (r *Registry) Unregister(tier Tier, name string) bool {
	if tier < TierDefault || tier >= tierCount {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tiers[tier][name]; !ok {
		return false
	}
	delete(r.tiers[tier], name)
	return true
}

// Lookup returns the tier that answers for name, or TierNative.
func (r *Registry) Lookup(name string) Tier {
	_, tier := r.lookup(name)
	return tier
}

// Has returns true if name is registered at tier.
func (r *Registry) Has(tier Tier, name string) bool {
	if tier < TierDefault || tier >= tierCount {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tiers[tier][name]
	return ok
}

// Resolve returns the highest-precedence command for name. It never fails:
// without a registration it returns the native command.
func (r *Registry) Resolve(name string) Command {
	f, tier := r.lookup(name)
	if tier == TierNative {
		return NewNative(r.env, name)
	}
	return f(r.env)
}

func (r *Registry) lookup(name string) (Factory, Tier) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for tier := tierCount - 1; tier >= TierDefault; tier-- {
		if f, ok := r.tiers[tier][name]; ok {
			return f, tier
		}
	}
	return nil, TierNative
}

// Names returns every registered name across tiers, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	for _, m := range r.tiers {
		for name := range m {
			seen[name] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of distinct registered names.
func (r *Registry) Count() int {
	return len(r.Names())
}
