package core

import (
	"net/url"
	"strings"
)

// Request is the administrative request a force-check is evaluated against.
// It replaces ambient host state (current screen, query string, current user).
type Request struct {
	// Screen is the admin page being loaded, e.g. "plugins.php".
	Screen string
	Query  url.Values
	User   Principal
}

// Tokens issues and verifies single-use anti-replay tokens scoped to an
// action.
type Tokens interface {
	Issue(action string) (string, error)
	// Verify reports whether token is valid for action and consumes it.
	Verify(token, action string) bool
}

// AuthorizeForceCheck reports whether req may clear kind's cached check
// result. All of the following must hold:
//   - the request is for kind.Screen
//   - the user holds kind.Capability
//   - if kind.RequireTrigger, the query carries TriggerParam=TriggerValue
//   - if kind.RequireToken, the query carries a token that tokens accepts
//     for TokenAction
//
// The token is only checked (and so only consumed) once every other
// condition holds.
func AuthorizeForceCheck(kind Kind, req Request, tokens Tokens) bool {
	if kind.Screen == "" || req.Screen != kind.Screen {
		return false
	}
	if req.User == nil || kind.Capability == "" || !req.User.Can(kind.Capability) {
		return false
	}
	if kind.RequireTrigger && req.Query.Get(TriggerParam) != TriggerValue {
		return false
	}
	if kind.RequireToken {
		token := sanitizeToken(req.Query.Get(TokenParam))
		if token == "" || tokens == nil || !tokens.Verify(token, TokenAction) {
			return false
		}
	}
	return true
}

// sanitizeToken keeps lowercase alphanumerics, dashes and underscores.
func sanitizeToken(token string) string {
	token = strings.ToLower(token)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return -1
	}, token)
}
