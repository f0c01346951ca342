package resolver

import "testing"

func TestRatio(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 100},
		{"abc", "abc", 100},
		{"abc", "", 0},
		{"", "abc", 0},
		{"abcd", "abce", 88},
		{"kitten", "sitting", 77},
	}

	for _, tc := range cases {
		if got := Ratio(tc.a, tc.b); got != tc.want {
			t.Errorf("Ratio(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestRatio_Symmetric(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"bayern munich", "bayern münchen"},
		{"arsenal", "arsenal london"},
		{"拜仁慕尼黑", "拜仁"},
	}
	for _, p := range pairs {
		if Ratio(p[0], p[1]) != Ratio(p[1], p[0]) {
			t.Errorf("Ratio(%q, %q) not symmetric", p[0], p[1])
		}
	}
}

func TestTokenSortRatio_IgnoresWordOrder(t *testing.T) {
	t.Parallel()

	if got := TokenSortRatio("united manchester", "manchester united"); got != 100 {
		t.Fatalf("TokenSortRatio = %d, want 100", got)
	}
	if plain := Ratio("united manchester", "manchester united"); plain == 100 {
		t.Fatalf("plain Ratio should not be 100 for reordered tokens, got %d", plain)
	}
}

func TestRatio_MisspellingScoresHigh(t *testing.T) {
	t.Parallel()

	// One transposition in a 13-char name must clear the match threshold.
	if got := Ratio("bayren munich", "bayern munich"); got < DefaultThreshold {
		t.Fatalf("Ratio(bayren, bayern) = %d, want >= %d", got, DefaultThreshold)
	}
}
