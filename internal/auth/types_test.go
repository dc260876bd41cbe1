package auth

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPrincipal_JSONShape(t *testing.T) {
	u := &User{
		ID:           "usr-1",
		Name:         "Sam",
		Email:        "sam@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		Role:         RoleMember,
		CreatedAt:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(u.Principal())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	for _, key := range []string{"id", "name", "email", "role", "created_at"} {
		if _, ok := got[key]; !ok {
			t.Errorf("principal JSON missing %q: %s", key, data)
		}
	}
	for _, key := range []string{"password_hash", "PasswordHash", "createdAt"} {
		if _, ok := got[key]; ok {
			t.Errorf("principal JSON should not carry %q: %s", key, data)
		}
	}
	if u.PasswordHash == "" {
		t.Error("Principal() must not modify the stored account")
	}
}
