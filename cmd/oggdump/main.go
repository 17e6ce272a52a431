// Command oggdump walks the pages of an Ogg physical bitstream and logs
// their structure: serial, sequence number, granule position, flags and
// sizes, plus any byte ranges skipped while resynchronizing.
//
// Usage:
//
//	oggdump -in stream.ogg
//	oggdump -in stream.ogg -packets
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/thesyncim/oggframe"
	"github.com/zerodha/logf"
)

const readSize = 8192

func main() {
	in := flag.String("in", "", "Ogg file to inspect")
	packets := flag.Bool("packets", false, "also log packet boundaries per logical stream")
	flag.Parse()

	log := logf.New(logf.Opts{EnableColor: true})

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: oggdump -in <file.ogg> [-packets]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	f, err := os.Open(*in)
	if err != nil {
		log.Fatal("open failed", "error", err)
	}
	defer f.Close()

	var oy oggframe.SyncState
	streams := make(map[uint32]*oggframe.StreamState)

	var (
		offset  int64
		pages   int
		skipped int64
	)

	for {
		var pg oggframe.Page
		n := oy.PageSeek(&pg)
		switch {
		case n > 0:
			log.Info("page",
				"offset", offset,
				"serial", pg.SerialNo(),
				"pageno", pg.PageNo(),
				"granulepos", pg.GranulePos(),
				"flags", flagString(&pg),
				"packets", pg.Packets(),
				"header_len", len(pg.Header),
				"body_len", len(pg.Body),
			)
			if *packets {
				dumpPackets(log, streams, &pg)
			}
			offset += int64(n)
			pages++

		case n < 0:
			log.Warn("skipped", "offset", offset, "bytes", -n)
			offset += int64(-n)
			skipped += int64(-n)

		default:
			buf := oy.Buffer(readSize)
			rn, rerr := f.Read(buf)
			if rn > 0 {
				if werr := oy.Wrote(rn); werr != nil {
					log.Fatal("buffer accounting failed", "error", werr)
				}
				continue
			}
			if rerr == nil {
				continue
			}
			if rerr == io.EOF {
				log.Info("done", "pages", pages, "bytes", offset, "skipped", skipped)
				return
			}
			log.Fatal("read failed", "error", rerr)
		}
	}
}

// dumpPackets feeds the page into a per-serial stream and logs every
// packet that completes.
func dumpPackets(log logf.Logger, streams map[uint32]*oggframe.StreamState, pg *oggframe.Page) {
	st, ok := streams[pg.SerialNo()]
	if !ok {
		st = oggframe.NewStream(pg.SerialNo())
		streams[pg.SerialNo()] = st
	}
	if err := st.PageIn(pg); err != nil {
		log.Warn("page rejected", "serial", pg.SerialNo(), "error", err)
		return
	}
	for {
		var op oggframe.Packet
		switch st.PacketOut(&op) {
		case 1:
			log.Info("packet",
				"serial", pg.SerialNo(),
				"packetno", op.PacketNo,
				"bytes", len(op.Data),
				"granulepos", op.GranulePos,
				"bos", op.BOS,
				"eos", op.EOS,
			)
		case -1:
			log.Warn("hole in stream", "serial", pg.SerialNo())
		default:
			return
		}
	}
}

func flagString(pg *oggframe.Page) string {
	s := [3]byte{'-', '-', '-'}
	if pg.Continued() {
		s[0] = 'c'
	}
	if pg.BOS() {
		s[1] = 'b'
	}
	if pg.EOS() {
		s[2] = 'e'
	}
	return string(s[:])
}
