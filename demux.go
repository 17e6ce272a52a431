package oggframe

import (
	"io"
)

// demuxReadSize is the chunk size the Demuxer pulls from its reader.
const demuxReadSize = 4096

// Demuxer extracts the packets of one logical bitstream from a physical
// stream read from an io.Reader. It locks onto the serial number of the
// first page it sees and ignores pages of other logical streams.
//
// It is a convenience wrapper over SyncState and StreamState for the
// common single-stream file case; interleaved multi-stream demuxing uses
// the state machines directly.
type Demuxer struct {
	r      io.Reader
	sync   SyncState
	stream *StreamState
	eof    bool
}

// NewDemuxer returns a Demuxer reading a physical bitstream from r.
func NewDemuxer(r io.Reader) *Demuxer {
	return &Demuxer{r: r}
}

// SerialNo returns the serial number of the logical stream being
// followed, and false before the first page has been seen.
func (d *Demuxer) SerialNo() (uint32, bool) {
	if d.stream == nil {
		return 0, false
	}
	return d.stream.SerialNo(), true
}

// ReadPacket returns the next packet of the followed logical stream. The
// packet body is a copy and stays valid indefinitely.
//
// A hole in the stream (lost or corrupt pages) is reported once as
// ErrGap; the next call resumes with the first packet after the
// discontinuity. io.EOF is returned when the input is exhausted.
func (d *Demuxer) ReadPacket() (*Packet, error) {
	for {
		if d.stream != nil {
			var op Packet
			switch d.stream.PacketOut(&op) {
			case 1:
				data := make([]byte, len(op.Data))
				copy(data, op.Data)
				op.Data = data
				return &op, nil
			case -1:
				return nil, ErrGap
			}
		}

		var pg Page
		if d.sync.PageOut(&pg) {
			if d.stream == nil {
				d.stream = NewStream(pg.SerialNo())
			}
			if pg.SerialNo() != d.stream.SerialNo() {
				continue // some other logical stream; not ours
			}
			// Version mismatches and malformed pages reduce to skipped
			// pages; the sequence break surfaces as a gap.
			_ = d.stream.PageIn(&pg)
			continue
		}

		if d.eof {
			return nil, io.EOF
		}
		buf := d.sync.Buffer(demuxReadSize)
		n, err := d.r.Read(buf)
		if n > 0 {
			if werr := d.sync.Wrote(n); werr != nil {
				return nil, werr
			}
		}
		if err != nil {
			if err == io.EOF {
				d.eof = true
				continue
			}
			return nil, err
		}
	}
}
