package pngmeta

// PNG chunk checksums use the bit-reversed CRC-32 polynomial shared with zlib.
const crcPoly = 0xEDB88320

// crcTable is built once at package init and never written again, so it is
// safe to share across concurrent Embed calls without locking.
var crcTable = makeCRCTable()

func makeCRCTable() [256]uint32 {
	var table [256]uint32
	for i := range table {
		c := uint32(i)
		for j := 0; j < 8; j++ {
			if c&1 != 0 {
				c = (c >> 1) ^ crcPoly
			} else {
				c >>= 1
			}
		}
		table[i] = c
	}
	return table
}

// crc32sum returns the CRC-32 checksum of p as PNG defines it: all-ones
// initial value, table-driven fold, final complement.
func crc32sum(p []byte) uint32 {
	c := uint32(0xFFFFFFFF)
	for _, b := range p {
		c = (c >> 8) ^ crcTable[(c^uint32(b))&0xFF]
	}
	return c ^ 0xFFFFFFFF
}
