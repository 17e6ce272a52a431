// encode.go implements the packet-to-page side of the framing layer.

package oggframe

import (
	"encoding/binary"
)

// defaultPageFill is the nominal page body size: once more than this many
// body bytes have accumulated, PageOut considers the page worth emitting.
const defaultPageFill = 4096

// PacketIn submits a packet to the stream. The body is segmented into
// lacing values and queued; no page is produced until PageOut or Flush.
// op.Data is copied, so the caller may reuse it immediately. The BOS flag
// on op is ignored: beginning-of-stream marking is derived from page
// emission order.
func (os *StreamState) PacketIn(op *Packet) error {
	return os.IovecIn([]Iovec{{Base: op.Data}}, op.EOS, op.GranulePos)
}

// IovecIn is PacketIn for a packet body scattered across several
// buffers, submitted without gathering them first.
func (os *StreamState) IovecIn(iov []Iovec, eos bool, granulePos int64) error {
	if err := os.Check(); err != nil {
		return err
	}
	if iov == nil {
		return nil
	}

	n := 0
	for _, v := range iov {
		n += len(v.Base)
	}
	segs := n/255 + 1

	// Reclaim body space consumed by previously emitted pages. It was
	// kept until now so the last returned page view stayed valid.
	if os.bodyReturned > 0 {
		m := copy(os.body, os.body[os.bodyReturned:])
		os.body = os.body[:m]
		os.bodyReturned = 0
	}

	for _, v := range iov {
		os.body = append(os.body, v.Base...)
	}

	start := len(os.lacing)
	for i := 0; i < segs-1; i++ {
		os.lacing = append(os.lacing, lacingEntry{val: 255, granule: -1})
	}
	os.lacing = append(os.lacing, lacingEntry{val: n % 255, granule: granulePos})
	os.lacing[start].begin = true

	os.granulePos = granulePos
	os.packetNo++
	if eos {
		os.eos = true
	}
	return nil
}

// PageOut emits a page opportunistically. A page is produced once the
// segment table is full, the accumulated body exceeds the nominal page
// size, the initial page is pending, or the stream has ended with data
// still queued. It returns false when nothing is emitted; the page view
// stays valid until the next mutating call on the stream.
func (os *StreamState) PageOut(pg *Page) bool {
	return os.pageOutFill(pg, defaultPageFill)
}

// PageOutFill is PageOut with a caller-chosen body-size threshold instead
// of the nominal page size.
func (os *StreamState) PageOutFill(pg *Page, nfill int) bool {
	return os.pageOutFill(pg, nfill)
}

func (os *StreamState) pageOutFill(pg *Page, nfill int) bool {
	if os.Check() != nil {
		return false
	}
	force := (os.eos && len(os.lacing) > 0) || // drain at end of stream
		(len(os.lacing) > 0 && !os.bosDone) || // initial page case
		len(os.body)-os.bodyReturned > nfill || // nominal size reached
		len(os.lacing) >= maxSegments // segment table full
	return os.flushPage(pg, force, nfill)
}

// Flush emits a page unconditionally if any segments are queued,
// regardless of fullness. This bounds latency at the cost of page
// overhead. It returns false once the queue is empty.
func (os *StreamState) Flush(pg *Page) bool {
	return os.flushPage(pg, true, defaultPageFill)
}

// FlushFill is Flush with a caller-chosen spill threshold: packets keep
// accreting onto the page until it exceeds nfill body bytes and at least
// four packets complete on it.
func (os *StreamState) FlushFill(pg *Page, nfill int) bool {
	return os.flushPage(pg, true, nfill)
}

// flushPage cuts one page from the queued lacing values. force demands
// emission even for a short page; nfill tunes how full a page should be
// before a packet boundary is taken as a cut point.
func (os *StreamState) flushPage(pg *Page, force bool, nfill int) bool {
	if os.Check() != nil {
		return false
	}

	maxVals := len(os.lacing)
	if maxVals > maxSegments {
		maxVals = maxSegments
	}
	if maxVals == 0 {
		return false
	}

	var vals int
	granulePos := int64(-1)

	if !os.bosDone {
		// The initial page carries only the first packet, so codecs can
		// rely on identifying a stream from its first page alone.
		for vals = 0; vals < maxVals; vals++ {
			if os.lacing[vals].val < 255 {
				granulePos = os.lacing[vals].granule
				vals++
				break
			}
		}
	} else {
		// Span pages only when necessary, and keep at least a few
		// packets per page before honoring the fill threshold, so large
		// packets do not degenerate into one page each.
		acc := 0
		packetsDone := 0
		packetJustDone := 0
		for vals = 0; vals < maxVals; vals++ {
			if acc > nfill && packetJustDone >= 4 {
				force = true
				break
			}
			acc += os.lacing[vals].val
			if os.lacing[vals].val < 255 {
				granulePos = os.lacing[vals].granule
				packetsDone++
				packetJustDone = packetsDone
			} else {
				packetJustDone = 0
			}
		}
		if vals == maxSegments {
			force = true
		}
	}

	if !force {
		return false
	}

	h := os.header[:pageHeaderSize+vals]
	copy(h[0:4], capturePattern)
	h[4] = 0

	h[5] = 0
	if !os.lacing[0].begin {
		h[5] |= FlagContinued
	}
	if !os.bosDone {
		h[5] |= FlagBOS
	}
	if os.eos && len(os.lacing) == vals {
		h[5] |= FlagEOS
	}
	os.bosDone = true

	binary.LittleEndian.PutUint64(h[6:14], uint64(granulePos))
	binary.LittleEndian.PutUint32(h[14:18], os.serialNo)

	// The counter is -1 until the first page, which is numbered 0. The
	// header field holds its low 32 bits, so it can roll over.
	if os.pageNo == -1 {
		os.pageNo = 0
	}
	binary.LittleEndian.PutUint32(h[18:22], uint32(os.pageNo))
	os.pageNo++

	h[22] = 0
	h[23] = 0
	h[24] = 0
	h[25] = 0

	h[26] = byte(vals)
	bodyBytes := 0
	for i := 0; i < vals; i++ {
		h[27+i] = byte(os.lacing[i].val)
		bodyBytes += os.lacing[i].val
	}

	pg.Header = h
	pg.Body = os.body[os.bodyReturned : os.bodyReturned+bodyBytes]

	// Advance past the emitted segments. Body bytes are only marked
	// returned; they are reclaimed on the next submission so the page
	// view stays valid.
	m := copy(os.lacing, os.lacing[vals:])
	os.lacing = os.lacing[:m]
	os.bodyReturned += bodyBytes

	pg.ChecksumSet()
	return true
}
