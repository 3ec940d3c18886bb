package models

import "testing"

func TestParseJobRole(t *testing.T) {
	valid := []string{"frontend", "backend", "fullstack", "data", "devops", "mobile", "product", "qa"}
	for _, raw := range valid {
		role, err := ParseJobRole(raw)
		if err != nil {
			t.Errorf("ParseJobRole(%q) unexpected error: %v", raw, err)
		}
		if string(role) != raw {
			t.Errorf("ParseJobRole(%q) = %q", raw, role)
		}
	}

	invalid := []string{"", "Backend", "BACKEND", "backend ", "designer", "sre"}
	for _, raw := range invalid {
		if _, err := ParseJobRole(raw); err == nil {
			t.Errorf("ParseJobRole(%q) expected error", raw)
		}
	}
}

func TestUserIsOAuth(t *testing.T) {
	if (&User{Password: "$2a$10$hash"}).IsOAuth() {
		t.Error("user with a stored credential is not an OAuth account")
	}
	if !(&User{}).IsOAuth() {
		t.Error("user without a stored credential is an OAuth account")
	}
}
