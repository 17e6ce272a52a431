// decode.go implements the page-to-packet side of the framing layer.

package oggframe

// PageIn submits a validated page to the stream. Segment table and body
// are queued; completed packets become available through PacketOut. Pages
// from other logical streams are rejected with ErrBadSerialNo, pages with
// a nonzero structure version with ErrBadVersion.
//
// A break in the page sequence discards any partially assembled packet
// and records a hole, which PacketOut reports once before resuming.
func (os *StreamState) PageIn(pg *Page) error {
	if err := os.Check(); err != nil {
		return err
	}

	header := pg.Header
	body := pg.Body
	if len(header) < pageHeaderSize {
		return ErrInvalidArgument
	}
	segments := int(header[26])
	if len(header) < pageHeaderSize+segments {
		return ErrInvalidArgument
	}
	bodyLen := 0
	for i := 0; i < segments; i++ {
		bodyLen += int(header[27+i])
	}
	if len(body) != bodyLen {
		return ErrInvalidArgument
	}
	version := pg.Version()
	continued := pg.Continued()
	bos := pg.BOS()
	eos := pg.EOS()
	granulePos := pg.GranulePos()
	serialNo := pg.SerialNo()
	pageNo := int64(pg.PageNo())

	// Clean out data consumed by earlier PacketOut calls. It was kept
	// around so the returned packet views stayed valid.
	if os.bodyReturned > 0 {
		m := copy(os.body, os.body[os.bodyReturned:])
		os.body = os.body[:m]
		os.bodyReturned = 0
	}
	if os.lacingReturned > 0 {
		m := copy(os.lacing, os.lacing[os.lacingReturned:])
		os.lacing = os.lacing[:m]
		os.lacingPacket -= os.lacingReturned
		os.lacingReturned = 0
	}

	if serialNo != os.serialNo {
		return ErrBadSerialNo
	}
	if version != 0 {
		return ErrBadVersion
	}

	// A sequence break means pages were lost: unroll the partial packet
	// accumulated so far and mark the hole in the segment queue.
	if pageNo != os.pageNo {
		for i := os.lacingPacket; i < len(os.lacing); i++ {
			os.body = os.body[:len(os.body)-os.lacing[i].val]
		}
		os.lacing = os.lacing[:os.lacingPacket]

		if os.pageNo != -1 {
			os.lacing = append(os.lacing, lacingEntry{gap: true})
			os.lacingPacket++
		}
	} else if !continued && os.midPacket() {
		// The encoder promised a continuation it did not deliver; drop
		// the stranded partial packet and start fresh with this page.
		for i := os.lacingPacket; i < len(os.lacing); i++ {
			os.body = os.body[:len(os.body)-os.lacing[i].val]
		}
		os.lacing = os.lacing[:os.lacingPacket]
	}

	// If the page continues a packet we no longer hold the head of,
	// its leading segments are useless: skip to the first fresh packet.
	segPtr := 0
	if continued {
		if !os.midPacket() {
			bos = false
			for ; segPtr < segments; segPtr++ {
				val := int(header[27+segPtr])
				body = body[val:]
				if val < 255 {
					segPtr++
					break
				}
			}
		}
	}

	if len(body) > 0 {
		os.body = append(os.body, body...)
	}

	saved := -1
	for ; segPtr < segments; segPtr++ {
		val := int(header[27+segPtr])
		e := lacingEntry{val: val, granule: -1}
		if bos {
			e.begin = true
			bos = false
		}
		os.lacing = append(os.lacing, e)
		if val < 255 {
			saved = len(os.lacing) - 1
			os.lacingPacket = len(os.lacing)
		}
	}

	// The page granule position belongs to the last packet completing on
	// this page.
	if saved != -1 {
		os.lacing[saved].granule = granulePos
	}

	if eos {
		os.eos = true
		if len(os.lacing) > 0 {
			os.lacing[len(os.lacing)-1].eos = true
		}
	}

	os.granulePos = granulePos
	os.pageNo = pageNo + 1
	return nil
}

// midPacket reports whether the segment queue ends inside a packet, i.e.
// the stream expects a continuation page.
func (os *StreamState) midPacket() bool {
	if len(os.lacing) == 0 {
		return false
	}
	last := os.lacing[len(os.lacing)-1]
	return last.val == 255 && !last.gap
}

// PacketOut yields the next packet assembled from submitted pages.
// It returns 1 with op filled in when a packet is available, 0 when more
// pages are needed, and -1 exactly once after a hole in the stream (the
// next call resumes with the first packet past the gap). The packet view
// stays valid until the next mutating call on the stream.
func (os *StreamState) PacketOut(op *Packet) int {
	return os.packetOut(op, true)
}

// PacketPeek is PacketOut without consuming the packet. Passing nil just
// asks whether a whole packet is waiting.
func (os *StreamState) PacketPeek(op *Packet) int {
	return os.packetOut(op, false)
}

func (os *StreamState) packetOut(op *Packet, advance bool) int {
	if os.Check() != nil {
		return 0
	}

	ptr := os.lacingReturned
	if os.lacingPacket <= ptr {
		return 0
	}

	if os.lacing[ptr].gap {
		// Tell the codec there is a hole; it may need to handle broken
		// packet dependencies. The marker is consumed even on peek.
		os.lacingReturned++
		os.packetNo++
		return -1
	}

	if op == nil && !advance {
		return 1
	}

	size := os.lacing[ptr].val
	total := size
	eos := os.lacing[ptr].eos
	bos := os.lacing[ptr].begin
	for size == 255 {
		ptr++
		size = os.lacing[ptr].val
		if os.lacing[ptr].eos {
			eos = true
		}
		total += size
	}

	if op != nil {
		op.EOS = eos
		op.BOS = bos
		op.Data = os.body[os.bodyReturned : os.bodyReturned+total]
		op.PacketNo = os.packetNo
		op.GranulePos = os.lacing[ptr].granule
	}

	if advance {
		os.bodyReturned += total
		os.lacingReturned = ptr + 1
		os.packetNo++
	}
	return 1
}
