package meetup

import "testing"

func TestValidTimeText(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"12:30", true},
		{"12:30 pm", true},
		{"7:05am", true},
		{"in 30 minutes", true},
		{"in 2 hours", true},
		{"now", true},
		{"soon", true},
		{"this afternoon", true},
		{"lunch time", true},
		{"lunchtime", true},
		{"around 5", true}, // short reasonable text
		{"", false},
		{"   ", false},
		{"x", false},
		{"ab", false},
	}
	for _, tc := range cases {
		if got := ValidTimeText(tc.in); got != tc.want {
			t.Errorf("ValidTimeText(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestValidTimeTextLengthBound(t *testing.T) {
	long := make([]byte, 60)
	for i := range long {
		long[i] = 'z'
	}
	if ValidTimeText(string(long)) {
		t.Error("overlong text should be rejected")
	}
}
