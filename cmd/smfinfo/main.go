// Command smfinfo prints the header and track index of a Standard MIDI
// File without rendering it: format, resolution, track count, and which
// track (if any) carries the tempo map.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/zurustar/smfrender/pkg/smf"
	"github.com/zurustar/smfrender/pkg/smflog"
)

func main() {
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	if err := smflog.Init(*logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "smfinfo: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: smfinfo <file.mid>")
		os.Exit(1)
	}

	if err := run(args[0]); err != nil {
		smflog.Get().Error("smfinfo failed", "path", args[0], "error", err)
		os.Exit(1)
	}
}

func run(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	header, addrs, err := smf.TrackAddresses(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	fmt.Printf("format:      %d\n", header.Format)
	fmt.Printf("resolution:  %d ticks/quarter\n", header.Resolution)
	fmt.Printf("tracks:      %d\n", len(addrs))

	tempoIndex, hasTempo, err := findTempoTrack(f, addrs)
	if err != nil {
		return err
	}

	for i, addr := range addrs {
		marker := ""
		if hasTempo && i == tempoIndex {
			marker = "  (tempo map)"
		}
		fmt.Printf("  track %2d: offset=%-8d size=%d%s\n", i, addr.Offset, addr.Size, marker)
	}

	if !hasTempo {
		fmt.Println("warning: no track carries a tempo change; rendering would fail")
	}

	return nil
}

// findTempoTrack re-scans each track (the index alone carries no event
// data) looking for the first one with a TEMPO_CHANGE, the same
// left-to-right search the renderer performs before rendering any audio.
func findTempoTrack(f *os.File, addrs []smf.TrackAddress) (int, bool, error) {
	const headerByteSize = 14

	for i, addr := range addrs {
		if _, err := f.Seek(headerByteSize+addr.Offset, io.SeekStart); err != nil {
			return 0, false, err
		}
		buf := make([]byte, addr.Size)
		if _, err := io.ReadFull(f, buf); err != nil {
			return 0, false, err
		}

		track, err := smf.ReadTrack(bytes.NewReader(buf), smf.NoLoop())
		if err != nil {
			return 0, false, err
		}
		if track.HasTempoChange() {
			return i, true, nil
		}
	}

	return 0, false, nil
}
