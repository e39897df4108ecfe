package service

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// firstUpper returns the upper-cased first rune of s, or fallback when s is
// blank.
func firstUpper(s string, fallback rune) rune {
	for _, r := range strings.TrimSpace(s) {
		return unicode.ToUpper(r)
	}
	return fallback
}

// ReportID builds a record handle: owner initial, condition initial, the
// last four digits of the millisecond clock and one random digit.  It is
// short and readable, not collision free.
func ReportID(ownerName, condition string, now time.Time, digit int) string {
	return fmt.Sprintf("%c%c%04d%d",
		firstUpper(ownerName, 'X'),
		firstUpper(condition, 'Z'),
		now.UnixMilli()%10000,
		digit%10)
}

// DLQID builds a questionnaire batch handle: "DLQ_", the initials of at
// most the first two words of the owner's name and a four digit number.
func DLQID(ownerName string, n int) string {
	var b strings.Builder
	b.WriteString("DLQ_")
	for i, w := range strings.Fields(ownerName) {
		if i == 2 {
			break
		}
		b.WriteRune(firstUpper(w, 0))
	}
	fmt.Fprintf(&b, "%04d", n)
	return b.String()
}
