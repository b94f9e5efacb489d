package models

import "strconv"

// FormatNaira renders an integer naira amount with thousands separators,
// e.g. 24000 -> "₦24,000".
func FormatNaira(n int64) string {
	digits := strconv.FormatInt(n, 10)
	neg := false
	if digits[0] == '-' {
		neg = true
		digits = digits[1:]
	}

	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	if neg {
		return "-₦" + string(out)
	}
	return "₦" + string(out)
}
