package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"15.000.000đ", 15000000},
		{"10.204.018.035", 10204018035},
		{"1,500", 1500},
		{"1.234,567", 1234567},
		{"200", 200},
		{"0", 0},
		{"", 0},
		{"   ", 0},
		{"N/A", 0},
		{"12abc", 0},
		{"$100", 0},
		{" 2.000đ ", 2000},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Money(c.in), "Money(%q)", c.in)
	}
}

// Money on any valid digit-with-separators string must equal the plain
// integer obtained by stripping the separators first.
func TestMoneySeparatorEquivalence(t *testing.T) {
	inputs := []string{"10.204.018.035", "7.000", "123", "9.999.999"}
	for _, s := range inputs {
		stripped := ""
		for _, r := range s {
			if r != '.' && r != ',' {
				stripped += string(r)
			}
		}
		assert.Equal(t, Money(stripped), Money(s), "Money(%q)", s)
	}
}

func TestTicketCount(t *testing.T) {
	assert.Equal(t, int64(1500), TicketCount("1.500"))
	assert.Equal(t, int64(0), TicketCount("unknown"))
}

func TestShowtimeCount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"3.0", 3},
		{"4.766", 4766},
		{"200", 200},
		{"", 0},
		{"12.5", 12},   // genuine decimal, truncated toward zero
		{"12,5", 12},   // comma decimal fallback
		{"1.234.567", 1234567},
		{"abc", 0},
		{"-3", 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ShowtimeCount(c.in), "ShowtimeCount(%q)", c.in)
	}
}
