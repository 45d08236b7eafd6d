// Command snappyblock compresses or decompresses standard input in the Snappy
// block format (or, with -framed, the Snappy framing format) and writes the
// result to standard output.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	pack "github.com/andybalholm/snappyblock"
	"github.com/andybalholm/snappyblock/snappy"
)

type options struct {
	decompress bool
	framed     bool
	maxLen     int
	trace      bool
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("snappyblock: ")

	var opts options
	flag.BoolVar(&opts.decompress, "d", false, "decompress instead of compressing")
	flag.BoolVar(&opts.framed, "framed", false, "use the framing format instead of a single block")
	flag.IntVar(&opts.maxLen, "max", 0, "with -d, reject a block that declares more than this many bytes (0 means no limit)")
	flag.BoolVar(&opts.trace, "trace", false, "print the matches found in each block instead of compressing")
	flag.Parse()

	if err := run(opts, os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(opts options, r io.Reader, w io.Writer) error {
	in, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var out []byte
	switch {
	case opts.trace:
		c := pack.Compressor{
			MatchFinder: new(snappy.MatchFinder),
			Encoder:     pack.TextEncoder{},
			BlockSize:   snappy.MaxBlockSize,
		}
		out = c.Append(nil, in)
	case opts.decompress && opts.framed:
		out, err = snappy.DecodeFramed(in)
	case opts.decompress && opts.maxLen > 0:
		out, err = snappy.DecodeLimit(nil, in, opts.maxLen)
	case opts.decompress:
		out, err = snappy.Decode(nil, in)
	case opts.framed:
		out = snappy.EncodeFramed(in)
	default:
		out = snappy.Encode(nil, in)
	}
	if err != nil {
		return fmt.Errorf("decompress: %w", err)
	}

	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
