package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"lumen/op"
)

func main() {
	var (
		outPath = flag.String("out", "", "Output file (JSON). Empty writes to stdout.")
		count   = flag.Int("n", 200, "Number of ops.")
		lanes   = flag.String("lanes", op.Nameless, "Comma-separated lane keys to draw names from.")
		seed    = flag.Int64("seed", 0, "Random seed (0 = time based).")
		check   = flag.Bool("check", false, "Validate -in instead of generating.")
		inPath  = flag.String("in", "", "Input document for -check.")
	)
	flag.Parse()

	if *check {
		if *inPath == "" {
			fatalf("usage: mkops -check -in ops.json")
		}
		if err := checkDocument(*inPath); err != nil {
			fatalf("check: %v", err)
		}
		return
	}
	if *count <= 0 {
		fatalf("usage: mkops [-n 200] [-lanes nameless,kick,kick/snare] [-seed 1] [-out ops.json]")
	}

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	doc := op.Random(rand.New(rand.NewSource(s)), *count, splitLanes(*lanes))
	if err := doc.Validate(); err != nil {
		fatalf("generate: %v", err)
	}
	if err := writeDocument(*outPath, doc); err != nil {
		fatalf("write: %v", err)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func splitLanes(s string) []string {
	var out []string
	for _, lane := range strings.Split(s, ",") {
		if lane = strings.TrimSpace(lane); lane != "" {
			out = append(out, lane)
		}
	}
	if len(out) == 0 {
		out = []string{op.Nameless}
	}
	return out
}

func writeDocument(path string, doc *op.Document) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	bw := bufio.NewWriter(w)
	if err := doc.Encode(bw); err != nil {
		return err
	}
	return bw.Flush()
}

// checkDocument loads path and reports lane sizes, failing on names or
// timestamps a receiver would not accept.
func checkDocument(path string) error {
	doc, err := op.Load(path)
	if err != nil {
		return err
	}
	if err := doc.CheckOrder(); err != nil {
		return err
	}
	streams := op.Partition(doc.Ops, float32(doc.Length))
	for _, key := range op.Keys(streams) {
		fmt.Printf("%-24s %d\n", key, streams[key].Len())
	}
	fmt.Printf("%-24s %d ops, %.2fs\n", "total", len(doc.Ops), doc.Length)
	return nil
}
