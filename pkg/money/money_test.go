package money

import "testing"

func TestParseRejectsMalformedInput(t *testing.T) {
	cases := []string{"", "  ", "abc", "12.3.4", "NaN"}
	for _, input := range cases {
		if _, err := Parse(input); err == nil {
			t.Fatalf("expected error for input %q", input)
		}
	}
}

func TestParseYenRounds(t *testing.T) {
	cases := []struct {
		input string
		want  int64
	}{
		{"100", 100},
		{"250.00", 250},
		{"99.5", 100},
		{"99.4", 99},
		{"-10", -10},
	}
	for _, tc := range cases {
		got, err := ParseYen(tc.input)
		if err != nil {
			t.Fatalf("ParseYen(%q): %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("ParseYen(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		input any
		want  int
	}{
		{3, 3},
		{int64(7), 7},
		{float64(5), 5},
		{"12", 12},
		{" 4 ", 4},
		{"-2", -2},
	}
	for _, tc := range cases {
		got, err := ParseQuantity(tc.input)
		if err != nil {
			t.Fatalf("ParseQuantity(%v): %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("ParseQuantity(%v) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestParseQuantityRejectsBadInput(t *testing.T) {
	bad := []any{"", "abc", "1.5", 2.5, nil, []int{1}}
	for _, input := range bad {
		if _, err := ParseQuantity(input); err == nil {
			t.Fatalf("expected error for input %v", input)
		}
	}
}
