package core

import (
	"fmt"
	"sort"
	"sync"
)

// Query parameters and token action used by the force-check link.
const (
	TriggerParam = "force-github-update"
	TriggerValue = "true"
	TokenParam   = "_wpnonce"
	TokenAction  = "github-updater-check"
)

// Kind describes how one asset type (plugin, theme) hooks into the host.
type Kind struct {
	// Name is the kind identifier, e.g. "plugin".
	Name string
	// Capability is required to force a re-check, e.g. "update_plugins".
	Capability string
	// TransientKey names the host cache entry, e.g. "update_plugins".
	TransientKey string
	// Screen is the admin screen the force-check must originate from.
	Screen string
	// SlugField is the key of the slug in the published record.
	SlugField string
	// RequireTrigger requires TriggerParam=TriggerValue in the query.
	RequireTrigger bool
	// RequireToken requires a valid single-use token for TokenAction.
	RequireToken bool
	// RedirectTo is the admin page to redirect to after an authorized
	// force-check. Empty means the request continues.
	RedirectTo string
	// ActionLinks adds a "Check for updates" link to the package's row.
	ActionLinks bool
}

var (
	kinds = make(map[string]Kind)
	mu    sync.RWMutex
)

// Register adds an asset kind. Registering a name twice replaces the earlier
// definition.
func Register(kind Kind) {
	mu.Lock()
	defer mu.Unlock()
	kinds[kind.Name] = kind
}

// LookupKind returns the kind registered under name.
func LookupKind(name string) (Kind, bool) {
	mu.RLock()
	defer mu.RUnlock()
	k, ok := kinds[name]
	return k, ok
}

// KindByName returns the kind registered under name or an ErrUnknownKind error.
func KindByName(name string) (Kind, error) {
	k, ok := LookupKind(name)
	if !ok {
		return Kind{}, fmt.Errorf("%w: %s", ErrUnknownKind, name)
	}
	return k, nil
}

// SupportedKinds returns all registered kind names, sorted.
func SupportedKinds() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
