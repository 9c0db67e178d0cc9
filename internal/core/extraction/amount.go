package extraction

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// amountToken matches the first signed decimal-looking run with at most two
// fractional digits, after separators are stripped.
var amountToken = regexp.MustCompile(`-?\d+(?:\.\d{1,2})?`)

var currencyStripper = strings.NewReplacer(
	",", "",
	"₹", " ",
	"$", " ",
)

// ParseAmount converts a free-form currency-like substring into a whole
// rupee amount, rounding to the nearest integer. The second result is false
// when no numeric token is present; callers must not treat that as zero.
func ParseAmount(raw string) (int64, bool) {
	cleaned := currencyStripper.Replace(raw)
	token := amountToken.FindString(cleaned)
	if token == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, false
	}
	return int64(math.Round(value)), true
}
