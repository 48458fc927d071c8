package rebase

import "hash/crc64"

// crcTable is the reflected CRC-64/ISO table (polynomial 0xD800000000000000).
var crcTable = crc64.MakeTable(crc64.ISO)

// CRC64 returns the checksum of a sequence under the convention sequence
// databases use for content verification: the CRC-64/ISO polynomial with a
// zero-initialized register and no final complement. The sequence is
// uppercased byte by byte before digesting, so case variants of the same
// sequence share a checksum.
//
// hash/crc64's Checksum inverts the register on entry and exit, which yields
// a different value, so the table is walked directly here.
func CRC64(seq string) uint64 {
	var crc uint64
	for i := 0; i < len(seq); i++ {
		b := seq[i]
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		crc = crcTable[byte(crc)^b] ^ (crc >> 8)
	}
	return crc
}
