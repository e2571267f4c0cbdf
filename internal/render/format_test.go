package render

import "testing"

func TestCurrency(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   float64
		want string
	}{
		{1234.5, "$1,234.50"},
		{0, "$0.00"},
		{10, "$10.00"},
		{999.999, "$1,000.00"},
		{1234567.89, "$1,234,567.89"},
	}
	for _, c := range cases {
		if got := Currency(c.in); got != c.want {
			t.Errorf("Currency(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPercent(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   float64
		want string
	}{
		{3.14159, "3.14%"},
		{0, "0.00%"},
		{20, "20.00%"},
		{99.999, "100.00%"},
	}
	for _, c := range cases {
		if got := Percent(c.in); got != c.want {
			t.Errorf("Percent(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCount(t *testing.T) {
	t.Parallel()
	if got := Count(200); got != "200" {
		t.Errorf("Count(200) = %q, want %q", got, "200")
	}
	if got := Count(0); got != "0" {
		t.Errorf("Count(0) = %q, want %q", got, "0")
	}
}
