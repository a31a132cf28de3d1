// Package plugin registers the plugin asset kind.
package plugin

import "github.com/git-pkgs/wpupdates/internal/core"

const kindName = "plugin"

// Kind is the plugin asset kind. A force-check must come from the plugins
// screen with the trigger parameter and a valid token, and redirects back to
// the plugins screen once the cached check result is cleared.
var Kind = core.Kind{
	Name:           kindName,
	Capability:     "update_plugins",
	TransientKey:   "update_plugins",
	Screen:         "plugins.php",
	SlugField:      "slug",
	RequireTrigger: true,
	RequireToken:   true,
	RedirectTo:     "plugins.php",
	ActionLinks:    true,
}

func init() {
	core.Register(Kind)
}
