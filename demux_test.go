package oggframe

import (
	"bytes"
	"io"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"
)

// buildStream muxes the given bodies into a complete physical stream,
// one page per packet.
func buildStream(t *testing.T, serialNo uint32, bodies [][]byte) []byte {
	t.Helper()
	var out bytes.Buffer
	os := NewStream(serialNo)
	for i, b := range bodies {
		require.NoError(t, os.PacketIn(&Packet{
			Data:       b,
			EOS:        i == len(bodies)-1,
			GranulePos: int64(i),
		}))
		var pg Page
		for os.Flush(&pg) {
			out.Write(pg.Header)
			out.Write(pg.Body)
		}
	}
	return out.Bytes()
}

func TestDemuxerReadsAllPackets(t *testing.T) {
	bodies := [][]byte{[]byte("aa"), []byte("bbb"), make([]byte, 1000), []byte("dd")}
	wire := buildStream(t, 21, bodies)

	d := NewDemuxer(bytes.NewReader(wire))
	for i, want := range bodies {
		op, err := d.ReadPacket()
		require.NoError(t, err)
		require.Equal(t, want, op.Data, "packet %d", i)
		require.Equal(t, int64(i), op.GranulePos)
		require.Equal(t, i == 0, op.BOS)
		require.Equal(t, i == len(bodies)-1, op.EOS)
	}

	_, err := d.ReadPacket()
	require.ErrorIs(t, err, io.EOF)
}

// TestDemuxerSmallReads drives the Demuxer from a reader that returns a
// single byte at a time.
func TestDemuxerSmallReads(t *testing.T) {
	bodies := [][]byte{[]byte("trickle"), []byte("of"), []byte("bytes")}
	wire := buildStream(t, 22, bodies)

	d := NewDemuxer(iotest.OneByteReader(bytes.NewReader(wire)))
	for _, want := range bodies {
		op, err := d.ReadPacket()
		require.NoError(t, err)
		require.Equal(t, want, op.Data)
	}
	_, err := d.ReadPacket()
	require.ErrorIs(t, err, io.EOF)
}

// TestDemuxerReportsGap corrupts a middle page: the demuxer reports the
// hole once via ErrGap and then carries on with the packets after it.
func TestDemuxerReportsGap(t *testing.T) {
	bodies := [][]byte{[]byte("one"), []byte("two"), []byte("three")}
	wire := buildStream(t, 23, bodies)

	// Locate the second page and break its checksum region.
	second := bytes.Index(wire[4:], []byte("OggS")) + 4
	require.Greater(t, second, 4)
	wire[second+30] ^= 0xff // body byte of page 1

	d := NewDemuxer(bytes.NewReader(wire))

	op, err := d.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte("one"), op.Data)

	_, err = d.ReadPacket()
	require.ErrorIs(t, err, ErrGap)

	op, err = d.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte("three"), op.Data)

	_, err = d.ReadPacket()
	require.ErrorIs(t, err, io.EOF)
}

// TestDemuxerIgnoresOtherStreams interleaves two logical streams; the
// demuxer follows only the one whose page appears first.
func TestDemuxerIgnoresOtherStreams(t *testing.T) {
	ours := buildStream(t, 1, [][]byte{[]byte("mine"), []byte("also mine")})
	theirs := buildStream(t, 2, [][]byte{[]byte("foreign")})

	// Physical interleave: our BOS page, their whole stream, our rest.
	firstPageLen := 27 + 1 + 4 // header + one segment + "mine"
	var wire []byte
	wire = append(wire, ours[:firstPageLen]...)
	wire = append(wire, theirs...)
	wire = append(wire, ours[firstPageLen:]...)

	d := NewDemuxer(bytes.NewReader(wire))

	op, err := d.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte("mine"), op.Data)

	op, err = d.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte("also mine"), op.Data)

	_, err = d.ReadPacket()
	require.ErrorIs(t, err, io.EOF)
}
