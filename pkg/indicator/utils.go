package indicator

import (
	"strconv"
)

// formatMultiplier formats a band multiplier for use in indicator names
// (2 -> "2", 2.5 -> "2.5")
func formatMultiplier(k float64) string {
	return strconv.FormatFloat(k, 'f', -1, 64)
}
