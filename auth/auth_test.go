package auth

import (
	"testing"
	"time"

	"comanda/models"
)

func TestRefreshTokenUsable(t *testing.T) {
	token, err := generateRefreshToken()
	if err != nil {
		t.Fatalf("generateRefreshToken: %v", err)
	}

	now := time.Now()
	user := models.User{
		UserID:        "u1",
		RefreshToken:  hashToken(token),
		RefreshExpiry: now.Add(time.Hour),
	}

	if !refreshTokenUsable(user, token, now) {
		t.Error("valid unexpired token rejected")
	}
	if refreshTokenUsable(user, "forged-token", now) {
		t.Error("token with wrong hash accepted")
	}
	if refreshTokenUsable(user, token, now.Add(2*time.Hour)) {
		t.Error("expired token accepted")
	}
}

func TestGenerateRefreshTokenUnique(t *testing.T) {
	a, err := generateRefreshToken()
	if err != nil {
		t.Fatalf("generateRefreshToken: %v", err)
	}
	b, err := generateRefreshToken()
	if err != nil {
		t.Fatalf("generateRefreshToken: %v", err)
	}
	if a == b {
		t.Error("two generated refresh tokens are identical")
	}
	if len(a) != 64 {
		t.Errorf("token length %d, want 64 hex chars", len(a))
	}
}

func TestDefaultRolesCarryNoStaffPrivileges(t *testing.T) {
	if len(defaultRoles) != 1 || defaultRoles[0] != "customer" {
		t.Errorf("new accounts get roles %v, want [customer]", defaultRoles)
	}
	for _, role := range defaultRoles {
		if role == "operator" || role == "admin" {
			t.Errorf("new accounts must not be granted staff role %q", role)
		}
	}
}

func TestHashTokenIsStable(t *testing.T) {
	if hashToken("abc") != hashToken("abc") {
		t.Error("hashToken not deterministic")
	}
	if hashToken("abc") == hashToken("abd") {
		t.Error("different tokens hash identically")
	}
	if hashToken("abc") == "abc" {
		t.Error("token stored unhashed")
	}
}
