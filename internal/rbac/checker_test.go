package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRolePermissions(t *testing.T) {
	cases := []struct {
		role, perm string
		want       bool
	}{
		{RoleStudent, PermQuizAttempt, true},
		{RoleStudent, PermContentCreate, false},
		{RoleStudent, PermContentVerify, false},
		{RoleTeacher, PermContentCreate, true},
		{RoleTeacher, PermContentVerify, true},
		{RoleTeacher, PermUsersAdmin, false},
		{RoleContentTeam, PermContentCreate, true},
		{RoleContentTeam, PermContentVerify, false},
		{RoleAdmin, PermUsersAdmin, true},
		{RoleAdmin, PermContentVerify, true},
		{"guest", PermQuizAttempt, false},
	}
	for _, c := range cases {
		if got := Can(c.role, c.perm); got != c.want {
			t.Errorf("Can(%q, %q) = %v, want %v", c.role, c.perm, got, c.want)
		}
	}
}

func TestMatchPermWildcard(t *testing.T) {
	c := NewChecker(map[string][]string{"editor": {"content:*"}})
	if !c.Has("editor", PermContentVerify) {
		t.Fatal("content:* should match content:verify")
	}
	if c.Has("editor", PermUsersAdmin) {
		t.Fatal("content:* should not match users:admin")
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range []string{RoleStudent, RoleTeacher, RoleAdmin, RoleContentTeam} {
		if !ValidRole(r) {
			t.Errorf("%q should be valid", r)
		}
	}
	if ValidRole("root") {
		t.Error("root should not be valid")
	}
}

func TestRequire(t *testing.T) {
	h := Require(PermContentCreate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	cases := []struct {
		role string
		want int
	}{
		{"", http.StatusUnauthorized},
		{RoleStudent, http.StatusForbidden},
		{RoleTeacher, http.StatusNoContent},
		{RoleAdmin, http.StatusNoContent},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/books", nil)
		if c.role != "" {
			req = req.WithContext(WithRole(req.Context(), c.role))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != c.want {
			t.Errorf("role %q: status = %d, want %d", c.role, rec.Code, c.want)
		}
	}
}
