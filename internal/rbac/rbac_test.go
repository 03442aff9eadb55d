package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestChecker_Has(t *testing.T) {
	c := NewChecker(nil)
	cases := []struct {
		role, perm string
		want       bool
	}{
		{"admin", "transcripts:view", true},
		{"reviewer", "quizzes:list", true},
		{"reviewer", "results:view", true},
		{"reviewer", "events:view", false},
		{"nobody", "quizzes:list", false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q,%q)=%v want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestMatchPerm_Prefix(t *testing.T) {
	c := NewChecker(map[string][]string{"ops": {"events:*"}})
	if !c.Has("ops", "events:view") || c.Has("ops", "quizzes:list") {
		t.Fatal("prefix wildcard mismatch")
	}
}

func TestRequire(t *testing.T) {
	h := Require("events:view")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	for role, want := range map[string]int{
		"":         http.StatusForbidden,
		"reviewer": http.StatusForbidden,
		"admin":    http.StatusNoContent,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if role != "" {
			req = req.WithContext(WithRole(context.Background(), role))
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != want {
			t.Errorf("role %q: status=%d want %d", role, rr.Code, want)
		}
	}
}

func TestPermissions(t *testing.T) {
	got := Permissions("reviewer")
	if len(got) != 2 || got[0] != "quizzes:list" || got[1] != "results:view" {
		t.Fatalf("reviewer perms=%v", got)
	}
	if Permissions("ghost") != nil {
		t.Fatal("unknown role should have no permissions")
	}
}
