// Package all imports all supported asset kinds.
//
// Import this package for its side effects to register every kind:
//
//	import (
//		"github.com/git-pkgs/wpupdates"
//		_ "github.com/git-pkgs/wpupdates/all"
//	)
//
//	// Now all kinds are available
//	kinds := wpupdates.SupportedKinds()
//	// ["plugin", "theme"]
package all

import (
	_ "github.com/git-pkgs/wpupdates/internal/plugin"
	_ "github.com/git-pkgs/wpupdates/internal/theme"
)
