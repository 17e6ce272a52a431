package oggframe

// Packet is one codec-level unit of data, reassembled from (or to be split
// into) lacing segments. The framing layer does not interpret Data.
type Packet struct {
	// Data is the packet body. Packets returned by PacketOut and
	// PacketPeek point into the stream's internal storage and are valid
	// only until the next mutating call on that stream.
	Data []byte

	// BOS marks the first packet of the logical bitstream.
	BOS bool

	// EOS marks the last packet of the logical bitstream.
	EOS bool

	// GranulePos is the codec-defined position of the page on which this
	// packet completed, or -1 when the packet did not end a page's last
	// completed run.
	GranulePos int64

	// PacketNo numbers packets within the logical bitstream, counting
	// from 0. Holes in the stream consume packet numbers.
	PacketNo int64
}

// Clear resets the packet to its zero state, dropping the reference into
// stream storage.
func (p *Packet) Clear() {
	*p = Packet{}
}

// Iovec is one piece of a packet body scattered across several buffers,
// submitted through IovecIn without gathering first.
type Iovec struct {
	// Base holds this piece's bytes; the slice length is the piece
	// length.
	Base []byte
}
