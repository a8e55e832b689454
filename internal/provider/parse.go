package provider

import (
	"math"
	"strconv"
	"strings"
)

// ParseLeadingFloat parses the longest numeric prefix of s, so "1.82%"
// yields 1.82. Values with no numeric prefix ("None", "-", "") and
// non-finite results yield 0.
func ParseLeadingFloat(s string) float64 {
	s = strings.TrimSpace(s)
	n := numericPrefix(s, true)
	if n == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(s[:n], 64)
	if err != nil {
		return 0
	}
	return finite(v)
}

// ParseLeadingInt parses the longest integer prefix of s, so "1.9" yields 1.
func ParseLeadingInt(s string) int64 {
	s = strings.TrimSpace(s)
	n := numericPrefix(s, false)
	if n == 0 {
		return 0
	}
	v, err := strconv.ParseInt(s[:n], 10, 64)
	if err != nil {
		// out of range: fall back to the float path and saturate
		f := ParseLeadingFloat(s[:n])
		if f > math.MaxInt64 {
			return math.MaxInt64
		}
		if f < math.MinInt64 {
			return math.MinInt64
		}
		return int64(f)
	}
	return v
}

// numericPrefix returns the length of the numeric prefix of s, or 0 if s
// does not start with a number.
func numericPrefix(s string, allowFraction bool) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if !allowFraction {
		if digits == 0 {
			return 0
		}
		return i
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits+frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			exp++
		}
		if exp > 0 {
			i = j
		}
	}
	return i
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
