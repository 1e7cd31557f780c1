package numfmt

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"R$ 10.000,00", "10000"},
		{"R$ 1.234.567,89", "1234567.89"},
		{"10000.00", "10000"},
		{"10.000", "10000"},
		{"12,5", "12.5"},
		{"0,005", "0.01"},
		{"", "0"},
		{"   ", "0"},
		{"R$ ", "0"},
	}
	for _, c := range cases {
		got, err := ParseAmount(c.in)
		if err != nil {
			t.Fatalf("%q: %v", c.in, err)
		}
		if !got.Equal(decimal.RequireFromString(c.want)) {
			t.Fatalf("%q: got %s, want %s", c.in, got, c.want)
		}
	}
}

func TestParseRate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1,5 %", "1.5"},
		{"1.5", "1.5"},
		{"12,0%", "12"},
		{"0,04", "0"},
		{"", "0"},
	}
	for _, c := range cases {
		got, err := ParseRate(c.in)
		if err != nil {
			t.Fatalf("%q: %v", c.in, err)
		}
		if !got.Equal(decimal.RequireFromString(c.want)) {
			t.Fatalf("%q: got %s, want %s", c.in, got, c.want)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := ParseAmount("-R$ 5,00"); !errors.Is(err, ErrNegative) {
		t.Fatalf("negative amount: err = %v", err)
	}
	if _, err := ParseRate("-1,0 %"); !errors.Is(err, ErrNegative) {
		t.Fatalf("negative rate: err = %v", err)
	}
	if _, err := ParseAmount("abc"); !errors.Is(err, ErrSyntax) {
		t.Fatalf("syntax: err = %v", err)
	}
}

func TestFormat(t *testing.T) {
	if got := FormatAmount(decimal.RequireFromString("10000")); got != "R$ 10.000,00" {
		t.Fatalf("FormatAmount = %q", got)
	}
	if got := FormatAmount(decimal.RequireFromString("999.5")); got != "R$ 999,50" {
		t.Fatalf("FormatAmount = %q", got)
	}
	if got := FormatRate(decimal.RequireFromString("1.5")); got != "1,5 %" {
		t.Fatalf("FormatRate = %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	d := decimal.RequireFromString("1234567.89")
	back, err := ParseAmount(FormatAmount(d))
	if err != nil || !back.Equal(d) {
		t.Fatalf("round trip: %s, %v", back, err)
	}
}
