package atacmd

import (
	"fmt"
	"math"
)

const (
	KB = 1 << (10 * (iota + 1))
	MB
	GB
	TB
)

// SizeString formats a sector count in the largest unit that keeps the
// value above one.
func SizeString(sectors uint64) string {
	t := float64(sectors*SectorSize) / TB
	if t > 1 {
		return fmt.Sprintf("%.2f TB", math.Round(t*100)/100)
	}
	g := float64(sectors*SectorSize) / GB
	if g > 1 {
		return fmt.Sprintf("%.2f GB", math.Round(g*100)/100)
	}
	m := float64(sectors*SectorSize) / MB
	if m > 1 {
		return fmt.Sprintf("%.2f MB", math.Round(m*100)/100)
	}
	k := float64(sectors*SectorSize) / KB
	return fmt.Sprintf("%.2f kB", math.Round(k*100)/100)
}
