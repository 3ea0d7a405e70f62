package session

import "testing"

func TestValidateUsername(t *testing.T) {
	cases := []struct {
		name string
		ok   bool
	}{
		{"Steve", true},
		{"Steve_123", true},
		{"", false},
		{"this_username_is_way_too_long", false},
		{"bad name", false},
		{"bad$name", false},
	}
	for _, c := range cases {
		err := ValidateUsername(c.name)
		if (err == nil) != c.ok {
			t.Errorf("ValidateUsername(%q): err=%v, want ok=%v", c.name, err, c.ok)
		}
	}
}

func TestOfflineUUIDDeterministic(t *testing.T) {
	a := OfflineUUID("Steve")
	b := OfflineUUID("Steve")
	if a != b {
		t.Error("OfflineUUID should be a pure function of the username")
	}
}

func TestOfflineUUIDDiffersByUsername(t *testing.T) {
	if OfflineUUID("Steve") == OfflineUUID("Alex") {
		t.Error("different usernames should (almost certainly) produce different UUIDs")
	}
}
