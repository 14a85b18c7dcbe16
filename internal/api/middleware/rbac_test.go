package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runRBAC(t *testing.T, role string, allowed ...string) (bool, error) {
	t.Helper()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/api/photos", nil), httptest.NewRecorder())
	if role != "" {
		c.Set(CtxRole, role)
	}

	called := false
	err := RBAC(allowed...)(func(echo.Context) error {
		called = true
		return nil
	})(c)
	return called, err
}

func TestRBAC_Allows(t *testing.T) {
	for _, role := range []string{"photographer", "admin"} {
		called, err := runRBAC(t, role, "photographer", "admin")
		if err != nil || !called {
			t.Fatalf("role %q: expected pass-through, got err=%v called=%v", role, err, called)
		}
	}
}

func TestRBAC_Forbids(t *testing.T) {
	for _, role := range []string{"client", "", "Admin"} {
		called, err := runRBAC(t, role, "photographer", "admin")
		if called {
			t.Fatalf("role %q: next handler must not run", role)
		}
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusForbidden || he.Message != msgAccessDenied {
			t.Fatalf("role %q: expected 403 access denied, got %v", role, err)
		}
	}
}

func TestRBAC_NoRolesAllowed(t *testing.T) {
	if called, _ := runRBAC(t, "admin"); called {
		t.Fatal("an empty allow list must reject everyone")
	}
}
