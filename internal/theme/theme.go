// Package theme registers the theme asset kind.
package theme

import "github.com/git-pkgs/wpupdates/internal/core"

const kindName = "theme"

// Kind is the theme asset kind. Loading the themes screen with the update
// capability is enough to clear the cached check result: there is no trigger
// parameter, token, redirect or action link.
//
// TODO: require the trigger parameter and a token here too once existing
// theme screens link to a force-check URL.
var Kind = core.Kind{
	Name:         kindName,
	Capability:   "update_themes",
	TransientKey: "update_themes",
	Screen:       "themes.php",
	SlugField:    "theme",
}

func init() {
	core.Register(Kind)
}
