package mbr

import "fmt"

var sizeUnits = [...]string{"B", "KiB", "MiB", "GiB", "TiB"}

// HumanSize formats a byte count with binary units and four decimal digits,
// for example 1048576 is "1024.0000 KiB" and 1048577 is "1.0000 MiB".
func HumanSize(b uint64) string {
	v := float64(b)
	i := 0
	for v > 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.4f %s", v, sizeUnits[i])
}
