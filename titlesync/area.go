package titlesync

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseArea reads a spreadsheet area cell. Thousands separators are ignored
// and trailing units are dropped ("1,250.5 sqm" is 1250.5). Anything without a
// leading number is 0.
//
// Stripping commas is a deliberate departure from plain leading-float parsing,
// which would read "1,250" as 1. Registry sheets use commas only as thousands
// separators.
func ParseArea(raw string) float64 {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	match := leadingNumber.FindString(s)
	if match == "" {
		return 0
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
