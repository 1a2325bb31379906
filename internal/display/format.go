// Package display formats values for human-readable log output.
package display

import "fmt"

var byteUnits = []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}

// FormatBytes returns a binary-prefixed size with one decimal ("1.5 MiB").
// Sizes under 1 KiB are exact ("512 B").
func FormatBytes(n int64) string {
	if n < 1024 && n > -1024 {
		return fmt.Sprintf("%d B", n)
	}
	v := float64(n) / 1024
	unit := 0
	for (v >= 1024 || v <= -1024) && unit < len(byteUnits)-1 {
		v /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", v, byteUnits[unit])
}
