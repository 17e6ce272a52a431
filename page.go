package oggframe

import (
	"encoding/binary"
)

// Page header flag constants.
const (
	// FlagContinued indicates this page's first segment continues a packet
	// that began on a previous page.
	FlagContinued = 0x01

	// FlagBOS (Beginning of Stream) indicates this is the first page of a
	// logical bitstream.
	FlagBOS = 0x02

	// FlagEOS (End of Stream) indicates this is the last page of a logical
	// bitstream.
	FlagEOS = 0x04
)

const (
	// pageHeaderSize is the fixed portion of the page header (before the
	// segment table).
	pageHeaderSize = 27

	// maxSegments is the largest segment table a single page can carry.
	maxSegments = 255

	// maxPageSize bounds a complete page: fixed header, full segment table
	// and 255 segments of 255 bytes.
	maxPageSize = pageHeaderSize + maxSegments + maxSegments*255
)

// capturePattern is the magic signature that identifies an Ogg page.
var capturePattern = []byte("OggS")

// Page is one Ogg page: a validated header (fixed fields plus segment
// table) and the payload it describes.
//
// Pages produced by SyncState and StreamState point into those objects'
// internal storage and are valid only until the next mutating call.
type Page struct {
	// Header holds the page header including the segment table
	// (27 + segment count bytes).
	Header []byte

	// Body holds the payload bytes described by the segment table.
	Body []byte
}

// Version returns the stream structure version byte. Only version 0 is
// defined by RFC 3533.
func (p *Page) Version() int {
	return int(p.Header[4])
}

// Continued reports whether the page's first segment continues a packet
// begun on the previous page.
func (p *Page) Continued() bool {
	return p.Header[5]&FlagContinued != 0
}

// BOS reports whether this is the first page of its logical bitstream.
func (p *Page) BOS() bool {
	return p.Header[5]&FlagBOS != 0
}

// EOS reports whether this is the last page of its logical bitstream.
func (p *Page) EOS() bool {
	return p.Header[5]&FlagEOS != 0
}

// GranulePos returns the page's granule position. The value is
// codec-defined and carried verbatim; -1 conventionally marks a page on
// which no packet completes.
func (p *Page) GranulePos() int64 {
	return int64(binary.LittleEndian.Uint64(p.Header[6:14]))
}

// SerialNo returns the serial number of the logical bitstream this page
// belongs to.
func (p *Page) SerialNo() uint32 {
	return binary.LittleEndian.Uint32(p.Header[14:18])
}

// PageNo returns the page sequence number.
func (p *Page) PageNo() uint32 {
	return binary.LittleEndian.Uint32(p.Header[18:22])
}

// Packets returns the number of packets that complete on this page. A
// final segment of 255 means the last packet continues on the next page
// and is not counted.
func (p *Page) Packets() int {
	n := int(p.Header[26])
	count := 0
	for i := 0; i < n; i++ {
		if p.Header[27+i] < 255 {
			count++
		}
	}
	return count
}

// ChecksumSet computes the page CRC over header and body with the
// checksum field zeroed, and writes it into the header.
func (p *Page) ChecksumSet() {
	p.Header[22] = 0
	p.Header[23] = 0
	p.Header[24] = 0
	p.Header[25] = 0
	crc := crcUpdate(crc32ogg(p.Header), p.Body)
	binary.LittleEndian.PutUint32(p.Header[22:26], crc)
}

// checksum computes the CRC a page's header and body should carry, without
// modifying the stored checksum field.
func (p *Page) checksum() uint32 {
	var zero [4]byte
	crc := crc32ogg(p.Header[:22])
	crc = crcUpdate(crc, zero[:])
	crc = crcUpdate(crc, p.Header[26:])
	return crcUpdate(crc, p.Body)
}
