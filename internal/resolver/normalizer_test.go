package resolver

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Manchester United FC", "manchester utd"},
		{"Manchester Utd", "manchester utd"},
		{"  Arsenal  ", "arsenal"},
		{"Arsenal Football Club", "arsenal"},
		{"FC Barcelona", "barcelona"},
		{"拜仁慕尼黑足球俱乐部", "拜仁慕尼黑"},
		{"拜仁慕尼黑", "拜仁慕尼黑"},
		{"", ""},
		{"   ", ""},
	}

	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Manchester United FC",
		"Bayern München",
		"拜仁慕尼黑足球俱乐部",
		"Real Madrid CF",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
