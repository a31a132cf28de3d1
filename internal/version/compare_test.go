package version

import "testing"

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.3.0", "1.2.0", 1},
		{"1.2.0", "1.2.0", 0},
		{"1.1.0", "1.2.0", -1},
		{"1.10.0", "1.9.9", 1},
		{"v1.3.0", "1.2.0", 1},
		{"v1.2.0", "1.2.0", 0},
		{"V2", "v1.9", 1},
		{"v1.2", "1.2.0", -1},
		{"1.0", "1.0.0", -1},
		{"1.0.0", "1.0.1", -1},
		{"1.0.0-beta", "1.0.0", -1},
		{"1.0.0-alpha", "1.0.0-beta", -1},
		{"1.0.0-a", "1.0.0-alpha", 0},
		{"1.0.0-dev", "1.0.0-alpha", -1},
		{"1.0.0-rc1", "1.0.0-beta2", 1},
		{"1.0.0RC1", "1.0.0rc1", 0},
		{"1.0.0-rc.2", "1.0.0-rc.1", 1},
		{"1.0.0pl1", "1.0.0", 1},
		{"1.0.0-foo", "1.0.0-dev", -1},
		{"2023-10-14", "2023-10-13", 1},
		{"2023-10-14", "2023.10.14", 0},
		{"1_0+2", "1.0.2", 0},
		{"1.0.", "1.0", 0},
		{"1.3.0-", "1.3.0", 0},
		{"1..0", "1.0", 0},
		{"1.3.0-", "1.2.9", 1},
		{"99999999999999999999999", "1", 1},
		{"", "1.0", -1},
		{"1.0", "", 1},
		{"", "", 0},
	}

	for _, tt := range tests {
		if got := Compare(tt.a, tt.b); got != tt.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		if got := Compare(tt.b, tt.a); got != -tt.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tt.b, tt.a, got, -tt.want)
		}
	}
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1.2.3", "1.2.3"},
		{"1.0-beta", "1.0.beta"},
		{"1.0rc1", "1.0.rc.1"},
		{"1_0+2", "1.0.2"},
		{"1..2", "1.2"},
		{"1.0.", "1.0"},
		{"1.3.0-", "1.3.0"},
		{"2023-10-14", "2023.10.14"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Canonicalize(tt.in); got != tt.want {
			t.Errorf("Canonicalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCompareSemver(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"v1.3.0", "1.2.0", 1},
		{"1.0", "1.0.0", 0},
		{"1.0.0-beta.2", "1.0.0-beta.11", -1},
		{"1.0.0-rc.1", "1.0.0", -1},
		{"not-a-version", "1.0.0", -1},
	}

	for _, tt := range tests {
		if got := CompareSemver(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareSemver(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestForScheme(t *testing.T) {
	if got := ForScheme("semver")("1.0", "1.0.0"); got != 0 {
		t.Errorf("semver scheme: 1.0 vs 1.0.0 = %d, want 0", got)
	}
	if got := ForScheme("")("1.0", "1.0.0"); got != -1 {
		t.Errorf("default scheme: 1.0 vs 1.0.0 = %d, want -1", got)
	}
	if got := ForScheme("nonsense")("1.0", "1.0.0"); got != -1 {
		t.Errorf("unknown scheme should fall back to default, got %d", got)
	}
}
