package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchRoute_PrefijoMasLargoPorSegmentos(t *testing.T) {
	rules := DefaultRoutes()
	cases := map[string]string{
		"/admin/super":          "/admin/super",
		"/admin/super/x":        "/admin/super",
		"/admin/company/users":  "/admin/company",
		"/admin/other":          "/admin",
		"/rrhh":                 "/rrhh",
		"/consultant/clients/1": "/consultant",
		"/app/surveys":          "/app",
	}
	for path, want := range cases {
		r, ok := matchRoute(rules, path)
		assert.True(t, ok, path)
		assert.Equal(t, want, r.Prefix, path)
	}

	for _, path := range []string{"/", "/apple", "/api/access/me", "/login", "/admins"} {
		_, ok := matchRoute(rules, path)
		assert.False(t, ok, path)
	}
}
