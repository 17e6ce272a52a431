// sync.go implements page-boundary synchronization over a raw byte stream.

package oggframe

import (
	"bytes"
	"encoding/binary"
)

// syncBufferSlack is extra headroom added whenever the sliding buffer
// grows, so steady-state feeding does not reallocate per chunk.
const syncBufferSlack = 4096

// SyncState resynchronizes a physical byte stream on page boundaries.
// Raw bytes go in through Buffer/Wrote; validated pages come out through
// PageSeek or PageOut. The zero value is ready to use.
//
// The engine owns a sliding buffer. It tolerates garbage, truncation and
// corruption in the input: anything that does not checksum as a page is
// skipped, and the number of bytes skipped is reported so callers can
// surface discontinuities.
type SyncState struct {
	data     []byte
	fill     int // valid bytes in data
	returned int // bytes already consumed out of data

	unsynced bool

	// Cached lengths of the candidate page at the head of the buffer,
	// valid once the segment table has been read. Zero headerBytes means
	// no candidate has been sized yet.
	headerBytes int
	bodyBytes   int
}

// Buffer exposes a writable segment of at least size bytes at the tail of
// the sliding buffer. The caller fills it with raw stream bytes and then
// reports the count through Wrote. Previously consumed bytes are
// compacted out; the buffer grows as needed.
func (oy *SyncState) Buffer(size int) []byte {
	// Release consumed space first.
	if oy.returned > 0 {
		oy.fill -= oy.returned
		if oy.fill > 0 {
			copy(oy.data, oy.data[oy.returned:oy.returned+oy.fill])
		}
		oy.returned = 0
	}

	if size > len(oy.data)-oy.fill {
		grown := make([]byte, size+oy.fill+syncBufferSlack)
		copy(grown, oy.data[:oy.fill])
		oy.data = grown
	}

	return oy.data[oy.fill : oy.fill+size]
}

// Wrote marks n bytes of the segment returned by Buffer as valid input.
func (oy *SyncState) Wrote(n int) error {
	if n < 0 || oy.fill+n > len(oy.data) {
		return ErrBufferOverflow
	}
	oy.fill += n
	return nil
}

// PageSeek advances the stream to the next page boundary.
//
// It returns n > 0 when a complete page of n bytes was consumed (pg is
// filled with views into the sync buffer, valid until the next mutating
// call), 0 when more input is needed, and n < 0 after skipping |n| bytes
// of the input hunting for a boundary. Negative returns let callers
// account for lost bytes and report stream discontinuities.
func (oy *SyncState) PageSeek(pg *Page) int {
	page := oy.data[oy.returned:oy.fill]

	if oy.headerBytes == 0 {
		if oy.unsynced {
			// Hunt for the capture pattern. Keep the last 3 bytes in
			// case they are the start of a pattern split across reads.
			i := bytes.Index(page, capturePattern)
			if i < 0 {
				if len(page) <= 3 {
					return 0
				}
				skip := len(page) - 3
				oy.returned += skip
				return -skip
			}
			if i > 0 {
				oy.returned += i
				return -i
			}
			oy.unsynced = false
		}

		if len(page) < pageHeaderSize {
			return 0
		}
		if !bytes.Equal(page[0:4], capturePattern) || page[4] != 0 {
			return oy.seekFailed(page)
		}

		headerBytes := int(page[26]) + pageHeaderSize
		if len(page) < headerBytes {
			return 0
		}
		bodyBytes := 0
		for _, s := range page[pageHeaderSize:headerBytes] {
			bodyBytes += int(s)
		}
		oy.headerBytes = headerBytes
		oy.bodyBytes = bodyBytes
	}

	if oy.headerBytes+oy.bodyBytes > len(page) {
		return 0
	}

	// The whole candidate page is buffered; verify the checksum.
	full := page[:oy.headerBytes+oy.bodyBytes]
	candidate := Page{Header: full[:oy.headerBytes], Body: full[oy.headerBytes:]}
	if candidate.checksum() != binary.LittleEndian.Uint32(full[22:26]) {
		// Corrupt page, or a miscapture that was never a page at all.
		// Lose sync and resume scanning one byte in.
		oy.headerBytes = 0
		oy.bodyBytes = 0
		oy.unsynced = true
		oy.returned++
		return -1
	}

	if pg != nil {
		pg.Header = candidate.Header
		pg.Body = candidate.Body
	}
	n := oy.headerBytes + oy.bodyBytes
	oy.unsynced = false
	oy.returned += n
	oy.headerBytes = 0
	oy.bodyBytes = 0
	return n
}

// seekFailed handles a head-of-buffer candidate that cannot be a page:
// scan forward for the next capture pattern in the same call so simple
// garbage prefixes cost a single negative return.
func (oy *SyncState) seekFailed(page []byte) int {
	oy.headerBytes = 0
	oy.bodyBytes = 0
	oy.unsynced = true

	var skip int
	if i := bytes.Index(page[1:], capturePattern); i >= 0 {
		skip = i + 1
	} else if len(page) <= 3 {
		skip = 1
	} else {
		skip = len(page) - 3
	}
	oy.returned += skip
	return -skip
}

// PageOut yields the next validated page, absorbing any skips PageSeek
// performs along the way. It returns false when more input is needed.
func (oy *SyncState) PageOut(pg *Page) bool {
	for {
		switch n := oy.PageSeek(pg); {
		case n > 0:
			return true
		case n == 0:
			return false
		}
		// Skipped bytes; keep scanning.
	}
}

// Reset discards all buffered input and synchronization state, keeping
// allocated storage. Use it after a seek on the physical stream.
func (oy *SyncState) Reset() {
	oy.fill = 0
	oy.returned = 0
	oy.unsynced = false
	oy.headerBytes = 0
	oy.bodyBytes = 0
}

// Clear is Reset plus releasing the sliding buffer.
func (oy *SyncState) Clear() {
	*oy = SyncState{}
}

// Check reports whether the engine is usable. The zero value always is;
// the method exists for symmetry with StreamState.
func (oy *SyncState) Check() error {
	return nil
}
