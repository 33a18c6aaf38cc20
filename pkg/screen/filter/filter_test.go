package filter

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		expr  string
		name  string
		match bool
	}{
		{"", "puts", true},
		{"puts,calls", "calls", true},
		{"puts,calls", "bearish_puts", false},
		{"bullish*", "bullish_calls", true},
		{"bullish*", "bearish_puts", false},
		{"/_puts$/", "bearish_puts", true},
		{"/_puts$/", "puts", false},
		{"PUT", "bearish_puts", true},
		{"put", "calls", false},
	}
	for _, c := range cases {
		f, err := Parse(c.expr)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.expr, err)
		}
		if got := f.Match(c.name); got != c.match {
			t.Errorf("Parse(%q).Match(%q) = %v, want %v", c.expr, c.name, got, c.match)
		}
	}
}

func TestParseBadRegex(t *testing.T) {
	if _, err := Parse("/(/"); err == nil {
		t.Fatal("invalid regex must error")
	}
}
