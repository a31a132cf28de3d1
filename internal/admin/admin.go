// Package admin adapts the update checkers to an HTTP admin area: it runs
// the force-check gate on every admin page load and renders the package
// screens with their action links.
package admin

import (
	"context"
	"crypto/subtle"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/git-pkgs/wpupdates/internal/core"
)

// PrincipalResolver returns the actor behind r. It must not return nil;
// unknown callers are core.Anonymous.
type PrincipalResolver func(r *http.Request) core.Principal

// Account is an admin user known by a bearer token.
type Account struct {
	Name         string
	Token        string
	Capabilities []string
}

// BearerPrincipals resolves the principal from an "Authorization: Bearer"
// header, comparing tokens in constant time.
func BearerPrincipals(accounts []Account) PrincipalResolver {
	return func(r *http.Request) core.Principal {
		parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return core.Anonymous
		}
		for _, a := range accounts {
			if a.Token == "" {
				continue
			}
			if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(a.Token)) == 1 {
				caps := make(core.Capabilities, len(a.Capabilities))
				for _, c := range a.Capabilities {
					caps[c] = true
				}
				return caps
			}
		}
		return core.Anonymous
	}
}

// Handler serves the admin area for a set of checkers.
type Handler struct {
	checkers []*core.Checker
	resolve  PrincipalResolver
	logger   *log.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithPrincipals sets how the request's principal is resolved. Without it
// every request is anonymous.
func WithPrincipals(fn PrincipalResolver) Option {
	return func(h *Handler) {
		h.resolve = fn
	}
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(h *Handler) {
		h.logger = l
	}
}

// New creates an admin handler.
func New(checkers []*core.Checker, opts ...Option) *Handler {
	h := &Handler{
		checkers: checkers,
		resolve:  func(*http.Request) core.Principal { return core.Anonymous },
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Request builds the force-check request for r. The screen is the last path
// element, so "/wp-admin/plugins.php" is the "plugins.php" screen.
func (h *Handler) Request(r *http.Request) core.Request {
	return core.Request{
		Screen: path.Base(r.URL.Path),
		Query:  r.URL.Query(),
		User:   h.resolve(r),
	}
}

// Middleware runs every checker's force-check gate before next. An
// authorized force-check that asks for a redirect answers 302 and stops the
// request; otherwise next is called.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := h.Request(r)
		if redirect := h.forceCheck(r.Context(), req); redirect != "" {
			http.Redirect(w, r, redirect, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) forceCheck(ctx context.Context, req core.Request) string {
	cleared := make(map[string]bool)
	for _, c := range h.checkers {
		kind := c.Kind()
		if cleared[kind.Name] || req.Screen != kind.Screen {
			continue
		}
		result := c.ForceCheck(ctx, req)
		if !result.Authorized {
			continue
		}
		cleared[kind.Name] = true
		h.logger.Printf("[admin] cleared %s", kind.TransientKey)
		if result.Redirect != "" {
			return result.Redirect
		}
	}
	return ""
}

// Screens renders each kind's screen as a list of managed packages with
// their action links. Unknown screens are 404. Callers lacking the kind's
// capability get 403 before any link, and so any token, is issued.
func (h *Handler) Screens() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		screen := path.Base(r.URL.Path)

		var matched []*core.Checker
		for _, c := range h.checkers {
			if c.Kind().Screen == screen {
				matched = append(matched, c)
			}
		}
		if len(matched) == 0 {
			http.NotFound(w, r)
			return
		}

		user := h.resolve(r)
		for _, c := range matched {
			if user == nil || !user.Can(c.Kind().Capability) {
				h.logger.Printf("[admin] denied %s", screen)
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
		}

		var rows []string
		for _, c := range matched {
			pkg := c.Package()
			links := c.ActionLinks(nil)
			rows = append(rows, fmt.Sprintf("<li>%s %s %s</li>",
				html.EscapeString(pkg.Slug), html.EscapeString(pkg.CurrentVersion), strings.Join(links, " | ")))
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprintf(w, "<!doctype html>\n<title>%s</title>\n<ul>\n%s\n</ul>\n",
			html.EscapeString(screen), strings.Join(rows, "\n"))
	})
}

// Logging logs each request with its status and duration.
func (h *Handler) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lrw, r)
		h.logger.Printf("[HTTP] %s %s - %d (%v)", r.Method, r.URL.Path, lrw.statusCode, time.Since(start))
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}
