package exporter

import (
	"fmt"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	// Values like 13.4 appear as 13.40 so columns stay aligned
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatPercent formats a percentage value with 2 decimal places
func formatPercent(f float64) string {
	return fmt.Sprintf("%.2f%%", f)
}