package oggframe

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFlushSinglePacket covers the smallest complete stream: one 1-byte
// packet with both stream markers, flushed onto a single page.
func TestFlushSinglePacket(t *testing.T) {
	os := NewStream(0x1234)
	err := os.PacketIn(&Packet{Data: []byte{0x41}, EOS: true, GranulePos: 0})
	require.NoError(t, err)

	var pg Page
	require.True(t, os.Flush(&pg))

	require.Equal(t, 28, len(pg.Header))
	require.Equal(t, 1, len(pg.Body))
	require.Equal(t, []byte{0x41}, pg.Body)
	require.Equal(t, byte(FlagBOS|FlagEOS), pg.Header[5])
	require.Equal(t, byte(1), pg.Header[26])
	require.Equal(t, byte(1), pg.Header[27])
	require.Equal(t, uint32(0x1234), pg.SerialNo())
	require.Equal(t, uint32(0), pg.PageNo())
	require.Equal(t, int64(0), pg.GranulePos())
	require.Equal(t, 1, pg.Packets())

	// CRC closure: stored checksum matches a recomputation over the page
	// with the field zeroed.
	require.Equal(t, binary.LittleEndian.Uint32(pg.Header[22:26]), pg.checksum())

	require.False(t, os.Flush(&pg), "queue must be drained")
	require.True(t, os.EOS())
}

// TestLacing verifies the segment tables produced for the boundary packet
// sizes: a 255-multiple ends with a zero-length segment.
func TestLacing(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		segments []byte
	}{
		{"empty packet", 0, []byte{0}},
		{"one byte", 1, []byte{1}},
		{"254 bytes", 254, []byte{254}},
		{"exactly 255", 255, []byte{255, 0}},
		{"256 bytes", 256, []byte{255, 1}},
		{"two times 255", 510, []byte{255, 255, 0}},
		{"600 bytes", 600, []byte{255, 255, 90}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			os := NewStream(1)
			require.NoError(t, os.PacketIn(&Packet{Data: make([]byte, tc.size), GranulePos: 7}))

			var pg Page
			require.True(t, os.Flush(&pg))
			require.Equal(t, tc.segments, pg.Header[27:27+int(pg.Header[26])])
			require.Equal(t, tc.size, len(pg.Body))

			sum := 0
			for _, s := range tc.segments {
				sum += int(s)
			}
			require.Equal(t, tc.size, sum, "segment values must sum to the packet length")
		})
	}
}

func TestIovecIn(t *testing.T) {
	os := NewStream(1)
	iov := []Iovec{{Base: []byte("lace")}, {Base: []byte("work")}}
	require.NoError(t, os.IovecIn(iov, false, 9))

	var pg Page
	require.True(t, os.Flush(&pg))
	require.Equal(t, []byte("lacework"), pg.Body)
	require.Equal(t, int64(9), pg.GranulePos())
}

// TestPageOutThresholds checks the opportunistic emission rules: the
// initial page goes out immediately, then pages wait for the nominal
// body size or a full segment table.
func TestPageOutThresholds(t *testing.T) {
	os := NewStream(5)
	var pg Page

	// Initial page case: emitted even though tiny.
	require.NoError(t, os.PacketIn(&Packet{Data: []byte("id header"), GranulePos: 0}))
	require.True(t, os.PageOut(&pg))
	require.True(t, pg.BOS())

	// A small packet alone does not reach the threshold.
	require.NoError(t, os.PacketIn(&Packet{Data: make([]byte, 100), GranulePos: 1}))
	require.False(t, os.PageOut(&pg))

	// Crossing the nominal body size forces a page.
	require.NoError(t, os.PacketIn(&Packet{Data: make([]byte, 4200), GranulePos: 2}))
	require.True(t, os.PageOut(&pg))
	require.False(t, pg.BOS())
	require.Equal(t, 4300, len(pg.Body))

	// EOS drains whatever is queued.
	require.NoError(t, os.PacketIn(&Packet{Data: []byte("bye"), EOS: true, GranulePos: 3}))
	require.True(t, os.PageOut(&pg))
	require.True(t, pg.EOS())
	require.False(t, os.PageOut(&pg))
}

func TestPageOutFillThreshold(t *testing.T) {
	os := NewStream(5)
	var pg Page

	require.NoError(t, os.PacketIn(&Packet{Data: []byte("head"), GranulePos: 0}))
	require.True(t, os.PageOut(&pg)) // initial page

	require.NoError(t, os.PacketIn(&Packet{Data: make([]byte, 600), GranulePos: 1}))
	require.False(t, os.PageOutFill(&pg, 1024))
	require.True(t, os.PageOutFill(&pg, 512))
}

// TestContinuedPages verifies the continuation protocol around a packet
// larger than one page can hold: the spanning page's final segment is
// 255 and the following page carries the continued flag.
func TestContinuedPages(t *testing.T) {
	os := NewStream(9)
	var pages []Page

	require.NoError(t, os.PacketIn(&Packet{Data: []byte("bos"), GranulePos: 0}))
	big := make([]byte, 70000)
	for i := range big {
		big[i] = byte(i)
	}
	require.NoError(t, os.PacketIn(&Packet{Data: big, EOS: true, GranulePos: 100}))

	for {
		var pg Page
		if !os.Flush(&pg) {
			break
		}
		// Copy out: the view dies on the next Flush.
		cp := Page{Header: append([]byte(nil), pg.Header...), Body: append([]byte(nil), pg.Body...)}
		pages = append(pages, cp)
	}
	require.Len(t, pages, 3)

	// Page 0: initial page, only the first packet.
	require.True(t, pages[0].BOS())
	require.Equal(t, 3, len(pages[0].Body))

	// Page 1: a full segment table of 255-valued segments, no packet
	// completes, granule position -1.
	require.False(t, pages[1].Continued())
	require.Equal(t, byte(255), pages[1].Header[26])
	require.Equal(t, byte(255), pages[1].Header[27+254])
	require.Equal(t, 0, pages[1].Packets())
	require.Equal(t, int64(-1), pages[1].GranulePos())

	// Page 2 continues the spanning packet and completes it.
	require.True(t, pages[2].Continued())
	require.True(t, pages[2].EOS())
	require.Equal(t, 1, pages[2].Packets())
	require.Equal(t, int64(100), pages[2].GranulePos())

	require.Equal(t, len(big), len(pages[1].Body)+len(pages[2].Body))

	// Page numbers are sequential.
	for i, pg := range pages {
		require.Equal(t, uint32(i), pg.PageNo())
	}
}

// TestFlushFillSpill checks that FlushFill keeps whole packets together
// until the page exceeds the requested fill.
func TestFlushFillSpill(t *testing.T) {
	os := NewStream(3)
	var pg Page

	require.NoError(t, os.PacketIn(&Packet{Data: []byte("head"), GranulePos: 0}))
	require.True(t, os.Flush(&pg)) // initial page out of the way

	for i := 0; i < 6; i++ {
		require.NoError(t, os.PacketIn(&Packet{Data: make([]byte, 2000), GranulePos: int64(i + 1)}))
	}

	// The page spills once at least four packets are done and the fill
	// threshold is exceeded.
	require.True(t, os.FlushFill(&pg, 4096))
	require.Equal(t, 8000, len(pg.Body))
	require.Equal(t, 4, pg.Packets())
	require.Equal(t, int64(4), pg.GranulePos())

	require.True(t, os.FlushFill(&pg, 4096))
	require.Equal(t, 4000, len(pg.Body))
	require.False(t, os.FlushFill(&pg, 4096))
}

func TestStreamReset(t *testing.T) {
	os := NewStream(11)
	require.NoError(t, os.PacketIn(&Packet{Data: []byte("x"), GranulePos: 0}))

	require.NoError(t, os.Reset())
	var pg Page
	require.False(t, os.Flush(&pg), "reset must drop queued data")
	require.Equal(t, uint32(11), os.SerialNo())

	require.NoError(t, os.ResetSerialNo(12))
	require.Equal(t, uint32(12), os.SerialNo())

	// First page after reset is a BOS page numbered 0 again.
	require.NoError(t, os.PacketIn(&Packet{Data: []byte("y"), GranulePos: 0}))
	require.True(t, os.Flush(&pg))
	require.True(t, pg.BOS())
	require.Equal(t, uint32(0), pg.PageNo())
}

func TestStreamClear(t *testing.T) {
	os := NewStream(1)
	os.Clear()
	require.ErrorIs(t, os.Check(), ErrNotReady)
	require.ErrorIs(t, os.PacketIn(&Packet{Data: []byte("x")}), ErrNotReady)
	var pg Page
	require.False(t, os.Flush(&pg))
}
