package auth

import "testing"

func TestNewHasher_EmptySalt(t *testing.T) {
	_, err := NewHasher("")
	if err == nil {
		t.Fatal("NewHasher() should reject an empty salt")
	}
}

func TestHash_Deterministic(t *testing.T) {
	h, err := NewHasher("pepper")
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}

	a := h.Hash("alice", "hunter2")
	b := h.Hash("alice", "hunter2")
	if a != b {
		t.Errorf("Hash() not deterministic: %q vs %q", a, b)
	}
	// SHA3-256 hex digest is 64 characters
	if len(a) != 64 {
		t.Errorf("Hash() length = %d, want 64", len(a))
	}
}

func TestHash_ChangingAnyInputChangesDigest(t *testing.T) {
	h1, _ := NewHasher("salt-one")
	h2, _ := NewHasher("salt-two")

	base := h1.Hash("alice", "hunter2")

	if got := h1.Hash("alice", "hunter3"); got == base {
		t.Error("different secret should change the digest")
	}
	if got := h1.Hash("alicia", "hunter2"); got == base {
		t.Error("different name should change the digest")
	}
	if got := h2.Hash("alice", "hunter2"); got == base {
		t.Error("different salt should change the digest")
	}
}

func TestVerify(t *testing.T) {
	h, _ := NewHasher("pepper")
	stored := h.Hash("alice", "hunter2")

	if !h.Verify(stored, "alice", "hunter2") {
		t.Error("Verify() should accept the original secret")
	}
	if h.Verify(stored, "alice", "wrong") {
		t.Error("Verify() should reject a wrong secret")
	}
	if h.Verify(stored, "bob", "hunter2") {
		t.Error("Verify() should reject the right secret under a different name")
	}
}
