package clinic

import "strings"

// DigitsOnly strips punctuation from stored identifiers; tax ids and phone
// numbers travel as raw digits and are punctuated only for display.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatTaxID renders an 11-digit tax id as 000.000.000-00. Anything that
// is not exactly 11 digits is returned as-is.
func FormatTaxID(taxID string) string {
	d := DigitsOnly(taxID)
	if len(d) != 11 {
		return taxID
	}
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
}

// FormatPhone renders a raw phone number as (00) 00000-0000 for 11 digits
// or (00) 0000-0000 for 10; other lengths are returned as-is.
func FormatPhone(phone string) string {
	d := DigitsOnly(phone)
	switch len(d) {
	case 11:
		return "(" + d[0:2] + ") " + d[2:7] + "-" + d[7:11]
	case 10:
		return "(" + d[0:2] + ") " + d[2:6] + "-" + d[6:10]
	default:
		return phone
	}
}

// NormalizeTime trims a server time-of-day ("09:00:00") to the zero-padded
// HH:MM the agenda sorts on.
func NormalizeTime(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}
