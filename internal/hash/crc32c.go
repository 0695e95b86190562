package hash

import (
	"encoding/binary"
	"hash/crc32"
)

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// SizesChecksum returns the CRC32C of the little-endian encoding of sizes.
func SizesChecksum(sizes [][2]int) uint32 {
	h := crc32.New(crc32cTable)
	var buf [16]byte
	for _, s := range sizes {
		binary.LittleEndian.PutUint64(buf[:8], uint64(s[0]))
		binary.LittleEndian.PutUint64(buf[8:], uint64(s[1]))
		_, _ = h.Write(buf[:])
	}
	return h.Sum32()
}
