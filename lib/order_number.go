package lib

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	orderDateLayout = "20060102"
	sequenceWidth   = 4
)

// DatePrefix returns the YYYYMMDD prefix of t in loc.
func DatePrefix(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(orderDateLayout)
}

// FormatOrderNumber builds an order number like 20240115-0001.
// Sequences above 9999 are written with as many digits as needed.
func FormatOrderNumber(prefix string, seq int) string {
	return fmt.Sprintf("%s-%0*d", prefix, sequenceWidth, seq)
}

// ParseSequence extracts the numeric suffix of an order number carrying prefix.
// A missing prefix or a non-numeric suffix yields 0.
func ParseSequence(orderNumber, prefix string) int {
	suffix, ok := strings.CutPrefix(orderNumber, prefix+"-")
	if !ok || suffix == "" {
		return 0
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0
		}
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0
	}
	return n
}
