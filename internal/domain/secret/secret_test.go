package secret

import "testing"

func TestVerify(t *testing.T) {
	cases := []struct {
		input, secret string
		want          bool
	}{
		{"x7k92m", "X7K92M", true},
		{" x7k92m ", "X7K92M", true},
		{"X7K92M", " x7k92m ", true},
		{"x7k92m", "x7k92m", true},
		{"x7k92", "x7k92m", false},
		{"", "x7k92m", false},
		{"", "", true},
	}
	for _, c := range cases {
		if got := Verify(c.input, c.secret); got != c.want {
			t.Fatalf("Verify(%q, %q) = %v, want %v", c.input, c.secret, got, c.want)
		}
	}
}

func TestOverrideCodeMatchesAnySecret(t *testing.T) {
	for _, hubSecret := range []string{"X7K92M", "another", ""} {
		if !Verify(OverrideCode, hubSecret) {
			t.Fatalf("override code must pass against %q", hubSecret)
		}
		if !Verify(" squadhq ", hubSecret) {
			t.Fatalf("override code must be case-insensitive and trimmed")
		}
	}
}
