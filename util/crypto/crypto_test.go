package crypto

import (
	"testing"
)

func TestHashPassword(t *testing.T) {
	// sha256("password"), hex encoded
	expected := "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8"

	if got := HashPassword("password"); got != expected {
		t.Errorf("HashPassword(\"password\") = %q, expected %q", got, expected)
	}
}

func TestHashPasswordDeterministic(t *testing.T) {
	first := HashPassword("s3cret")
	second := HashPassword("s3cret")
	if first != second {
		t.Errorf("digest not deterministic: %q != %q", first, second)
	}
	if len(first) != 64 {
		t.Errorf("digest length = %d, expected 64", len(first))
	}
	if HashPassword("other") == first {
		t.Error("different passwords produced the same digest")
	}
}
