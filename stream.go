package oggframe

// lacingEntry describes one packet segment queued on a stream: its lacing
// value (0..255), the granule position attached to the segment that
// completes a packet, and bookkeeping flags.
type lacingEntry struct {
	val     int
	granule int64
	begin   bool // first segment of a packet; on decode only set after BOS
	eos     bool // segment closes the stream (set from an EOS page)
	gap     bool // hole marker injected on a page sequence break
}

// StreamState tracks encode or decode progress for one logical bitstream.
// The same type serves both directions: the encode side accumulates
// packets and cuts pages, the decode side accumulates pages and yields
// packets. A single StreamState instance should be used for one direction
// only.
type StreamState struct {
	// body accumulates packet bodies not yet handed out; bodyReturned
	// marks the prefix already consumed (kept until the next submission
	// so returned views stay valid).
	body         []byte
	bodyReturned int

	// lacing holds the segment queue. lacingPacket bounds the segments
	// known to form whole packets (decode side); lacingReturned marks
	// segments already consumed by PacketOut.
	lacing         []lacingEntry
	lacingPacket   int
	lacingReturned int

	// header is scratch storage for the page being cut; emitted pages
	// point into it.
	header [pageHeaderSize + maxSegments]byte

	ready      bool
	bosDone    bool // a first page has been emitted (encode side)
	eos        bool
	serialNo   uint32
	pageNo     int64 // next page number to emit / expect; -1 before any
	packetNo   int64
	granulePos int64
}

// NewStream returns a StreamState for the logical bitstream identified by
// serialNo.
func NewStream(serialNo uint32) *StreamState {
	os := &StreamState{}
	os.init(serialNo)
	return os
}

func (os *StreamState) init(serialNo uint32) {
	*os = StreamState{
		ready:    true,
		serialNo: serialNo,
		pageNo:   -1,
	}
}

// SerialNo returns the stream's serial number.
func (os *StreamState) SerialNo() uint32 {
	return os.serialNo
}

// EOS reports whether the end of the stream has been reached: on the
// encode side a packet was submitted with the EOS flag, on the decode side
// an EOS page was consumed.
func (os *StreamState) EOS() bool {
	return os.eos
}

// GranulePos returns the granule position of the most recent packet
// submitted (encode) or page consumed (decode).
func (os *StreamState) GranulePos() int64 {
	return os.granulePos
}

// Check reports whether the stream is usable. It returns ErrNotReady
// after Clear.
func (os *StreamState) Check() error {
	if !os.ready {
		return ErrNotReady
	}
	return nil
}

// Reset rewinds the stream to its initial state, keeping the serial number
// and allocated storage.
func (os *StreamState) Reset() error {
	if !os.ready {
		return ErrNotReady
	}
	os.body = os.body[:0]
	os.bodyReturned = 0
	os.lacing = os.lacing[:0]
	os.lacingPacket = 0
	os.lacingReturned = 0
	os.bosDone = false
	os.eos = false
	os.pageNo = -1
	os.packetNo = 0
	os.granulePos = 0
	return nil
}

// ResetSerialNo resets the stream and assigns a new serial number. This
// supports reusing one state across the links of a chained bitstream.
func (os *StreamState) ResetSerialNo(serialNo uint32) error {
	if err := os.Reset(); err != nil {
		return err
	}
	os.serialNo = serialNo
	return nil
}

// Clear releases the stream's storage and marks it not ready. The state
// cannot be used again until reinitialized with NewStream.
func (os *StreamState) Clear() {
	*os = StreamState{}
}
