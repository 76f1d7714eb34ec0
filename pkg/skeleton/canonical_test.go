package skeleton

import "testing"

func TestCanonical(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "spine", "spine"},
		{"suffix", "spine.001", "spine"},
		{"suffix high", "pelvis.999", "pelvis"},
		{"stacked", "head.001.002", "head"},
		{"two digits", "spine.01", "spine.01"},
		{"four digits", "spine.0001", "spine.0001"},
		{"letters", "spine.abc", "spine.abc"},
		{"underscore", "spine_001", "spine_001"},
		{"dot inside", "hand.r.003", "hand.r"},
		{"middle only", "a.001b", "a.001b"},
		{"suffix only", ".001", ".001"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Canonical(tt.in); got != tt.want {
				t.Errorf("Canonical(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCanonicalRemovesFourCharacters(t *testing.T) {
	for _, base := range []string{"spine", "upperarm_l", "ik_hand_gun", "hand.r", "b"} {
		for _, suffix := range []string{".000", ".001", ".042", ".999"} {
			name := base + suffix
			got := Canonical(name)
			if len(name)-len(got) != 4 {
				t.Errorf("Canonical(%q) = %q, removed %d chars, want 4", name, got, len(name)-len(got))
			}
		}
	}
}

func TestCanonicalIdempotent(t *testing.T) {
	names := []string{
		"spine", "spine.001", "a.001.002", "hand.r.003", "x.1234", "y.12",
		".001", "..001001", "bone.000.", "root",
	}
	for _, name := range names {
		once := Canonical(name)
		if twice := Canonical(once); twice != once {
			t.Errorf("Canonical not idempotent on %q: %q then %q", name, once, twice)
		}
	}
}

func TestIsDuplicate(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"spine.001", true},
		{"spine.000", true},
		{"spine", false},
		{"spine.01", false},
		{"spine.0001", false},
		{"spine_001", false},
		{"spine.001x", false},
	}

	for _, tt := range tests {
		if got := IsDuplicate(tt.in); got != tt.want {
			t.Errorf("IsDuplicate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
