package store

import "fmt"

// Checksum returns the additive 32-bit byte-sum of data as 8 lowercase hex
// digits. It is a weak integrity tag: each version's metadata records the sum
// of the reference buffer its delta was built against, and a mismatch during
// reconstruction is logged but never fatal.
func Checksum(data []byte) string {
	var sum uint32
	for _, b := range data {
		sum += uint32(b)
	}
	return fmt.Sprintf("%08x", sum)
}
