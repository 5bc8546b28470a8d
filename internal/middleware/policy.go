package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"dealership/internal/errors"
)

// Access is the requirement a rule places on a request.
type Access int

const (
	// Public requests pass regardless of identity.
	Public Access = iota
	// Authenticated requests need any non-anonymous identity.
	Authenticated
	// AdminOnly requests need the ADMIN role.
	AdminOnly
)

// Rule maps an HTTP method and path pattern to a required access level.
// Method "*" matches any method. Pattern segments starting with ":" match one
// path segment; a trailing "*" segment matches any remainder.
type Rule struct {
	Method  string
	Pattern string
	Access  Access
}

// DefaultRules is the authorization table. Evaluation is first match wins;
// unmatched requests require authentication with no specific role.
var DefaultRules = []Rule{
	{http.MethodPost, "/api/auth/login", Public},
	{http.MethodGet, "/api/cars", Public},
	{http.MethodGet, "/api/cars/search", Public},
	{http.MethodGet, "/api/cars/brands", Public},
	{http.MethodGet, "/api/cars/fuel-types", Public},
	{http.MethodGet, "/api/cars/:id", Public},
	{http.MethodGet, "/healthz", Public},
	{http.MethodGet, "/swagger/*", Public},
	{http.MethodPost, "/api/cars", AdminOnly},
	{http.MethodPost, "/api/cars/:id/gallery", AdminOnly},
	{http.MethodPut, "/api/cars/:id", AdminOnly},
	{http.MethodDelete, "/api/cars/:id", AdminOnly},
	{http.MethodDelete, "/api/cars/:id/gallery", AdminOnly},
}

// Authorize enforces the rule table against the identity the gate established.
func Authorize(rules []Rule) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			required := Evaluate(rules, c.Request().Method, c.Request().URL.Path)
			ident := IdentityFrom(c)

			switch required {
			case Public:
				return next(c)
			case Authenticated:
				if !ident.IsAuthenticated() {
					return unauthorized()
				}
				return next(c)
			case AdminOnly:
				if !ident.IsAuthenticated() {
					return unauthorized()
				}
				if !ident.IsAdmin() {
					return forbidden()
				}
				return next(c)
			}
			// unreachable, but never allow through on an ambiguous match
			return forbidden()
		}
	}
}

// Evaluate returns the access level the first matching rule requires, or
// Authenticated when no rule matches.
func Evaluate(rules []Rule, method, path string) Access {
	for _, rule := range rules {
		if rule.Method != "*" && rule.Method != method {
			continue
		}
		if matchPattern(rule.Pattern, path) {
			return rule.Access
		}
	}
	return Authenticated
}

func matchPattern(pattern, path string) bool {
	patternSegs := strings.Split(strings.Trim(pattern, "/"), "/")
	pathSegs := strings.Split(strings.Trim(path, "/"), "/")

	for i, seg := range patternSegs {
		if seg == "*" {
			return true
		}
		if i >= len(pathSegs) {
			return false
		}
		if strings.HasPrefix(seg, ":") {
			continue
		}
		if seg != pathSegs[i] {
			return false
		}
	}
	return len(patternSegs) == len(pathSegs)
}

func unauthorized() error {
	return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
		Error: "authentication required",
		Code:  "UNAUTHORIZED",
	})
}

func forbidden() error {
	return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
		Error: "insufficient role",
		Code:  "FORBIDDEN",
	})
}
