package shared

import (
	"strconv"
	"strings"
)

// MaxAmount is the largest price a NUMERIC(14,2) column holds
const MaxAmount = 999_999_999_999.99

// ValidAmount reports whether v is a positive price within MaxAmount with at
// most two decimal places
func ValidAmount(v float64) bool {
	if !(v > 0) || v > MaxAmount {
		return false
	}
	_, decimals, _ := strings.Cut(strconv.FormatFloat(v, 'f', -1, 64), ".")
	return len(decimals) <= 2
}
