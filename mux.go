package oggframe

import (
	"io"
)

// Muxer frames packets of one logical bitstream into pages written to an
// io.Writer. Pages are cut opportunistically as data accumulates; Flush
// forces whatever is queued onto a page for bounded latency.
type Muxer struct {
	w      io.Writer
	stream *StreamState
	closed bool
}

// NewMuxer returns a Muxer writing a logical bitstream with the given
// serial number to w.
func NewMuxer(w io.Writer, serialNo uint32) *Muxer {
	return &Muxer{w: w, stream: NewStream(serialNo)}
}

// SerialNo returns the serial number of the logical stream being written.
func (m *Muxer) SerialNo() uint32 {
	return m.stream.SerialNo()
}

// WritePacket queues one packet and writes any pages that are ready.
// granulePos is the codec-defined stream position after this packet.
func (m *Muxer) WritePacket(data []byte, granulePos int64) error {
	if m.closed {
		return ErrStreamClosed
	}
	if err := m.stream.PacketIn(&Packet{Data: data, GranulePos: granulePos}); err != nil {
		return err
	}
	return m.drain(false)
}

// Flush forces all queued data onto pages and writes them out.
func (m *Muxer) Flush() error {
	return m.drain(true)
}

// Close marks the logical stream as ended, emitting a final EOS page, and
// flushes everything queued. The Muxer must not be used afterwards.
func (m *Muxer) Close() error {
	if m.closed {
		return nil
	}
	if !m.stream.EOS() {
		// An empty packet carries the EOS flag onto the final page.
		err := m.stream.PacketIn(&Packet{EOS: true, GranulePos: m.stream.GranulePos()})
		if err != nil {
			return err
		}
	}
	if err := m.drain(true); err != nil {
		return err
	}
	m.closed = true
	return nil
}

func (m *Muxer) drain(flush bool) error {
	var pg Page
	for {
		var emitted bool
		if flush {
			emitted = m.stream.Flush(&pg)
		} else {
			emitted = m.stream.PageOut(&pg)
		}
		if !emitted {
			return nil
		}
		if _, err := m.w.Write(pg.Header); err != nil {
			return err
		}
		if _, err := m.w.Write(pg.Body); err != nil {
			return err
		}
	}
}
