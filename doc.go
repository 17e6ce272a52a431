// Package oggframe implements the Ogg bitstream framing layer as specified
// in RFC 3533 (The Ogg Encapsulation Format Version 0).
//
// The framing layer multiplexes logical streams of variable-length packets
// into a sequence of fixed-structure pages on a physical byte stream. Codec
// payloads (Vorbis, Theora, Opus, ...) are opaque to this layer; packet
// bodies are treated as byte blobs.
//
// # Page Structure
//
// An Ogg page has the following structure:
//
//	Bytes 0-3:   "OggS" capture pattern (magic signature)
//	Byte 4:      Stream structure version (always 0)
//	Byte 5:      Header type flags (continuation, BOS, EOS)
//	Bytes 6-13:  Granule position (codec-defined stream position)
//	Bytes 14-17: Bitstream serial number
//	Bytes 18-21: Page sequence number
//	Bytes 22-25: CRC checksum
//	Byte 26:     Number of segments
//	Bytes 27+:   Segment table (one byte per segment)
//	Remaining:   Page payload data
//
// # Segment Table
//
// Packets are split into segments of up to 255 bytes each. A segment value
// of 255 indicates the packet continues in the next segment. A value less
// than 255 marks the end of a packet. A packet whose length is an exact
// multiple of 255 ends with a zero-length segment. The final packet of a
// page may continue onto the next page, whose header then carries the
// continuation flag.
//
// # CRC Calculation
//
// Ogg uses CRC-32 with polynomial 0x04C11DB7 (NOT the IEEE polynomial used
// by hash/crc32). The CRC is computed over the entire page with the CRC
// field set to zero.
//
// # Encoding
//
// StreamState accumulates packets for one logical stream and cuts pages:
//
//	os := oggframe.NewStream(serial)
//	os.PacketIn(&oggframe.Packet{Data: body, GranulePos: gp})
//	var pg oggframe.Page
//	for os.PageOut(&pg) {
//		// write pg.Header then pg.Body to the physical stream
//	}
//
// PageOut emits pages opportunistically once enough data has accumulated;
// Flush cuts a page from whatever is queued, bounding latency.
//
// # Decoding
//
// SyncState finds and validates page boundaries in arbitrary byte chunks;
// StreamState on the decode side reassembles packets, joining bodies that
// span pages:
//
//	var oy oggframe.SyncState
//	buf := oy.Buffer(4096)
//	n, _ := r.Read(buf)
//	oy.Wrote(n)
//	var pg oggframe.Page
//	for oy.PageOut(&pg) {
//		os.PageIn(&pg)
//		var op oggframe.Packet
//		for os.PacketOut(&op) == 1 {
//			// op.Data, op.GranulePos, op.BOS, op.EOS
//		}
//	}
//
// The Demuxer and Muxer types wrap these state machines behind io.Reader
// and io.Writer for the common single-stream file case.
//
// # Memory Model
//
// The state machines hand out views into their internal buffers: Page and
// Packet contents returned by PageOut, Flush, PageSeek, PacketOut and
// PacketPeek remain valid only until the next mutating call on the same
// state object. Copy the bytes if they must outlive that. None of the
// types are safe for concurrent use; distinct objects are independent.
//
// # References
//
//   - RFC 3533: The Ogg Encapsulation Format Version 0
//   - https://xiph.org/ogg/doc/framing.html
package oggframe
