// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Command analytics runs repeated small plots across a range of k values
// and strengths, recording per-table entry counts and timings. Scratch
// run data (the raw per-table counts collected before being summarized)
// is kept snappy-compressed in memory between runs, the same way the
// teacher's pprof-enabled client keeps runtime diagnostics cheap to
// retain without committing to a heavier on-disk format.
package main

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/Chia-Network/pos2-chip-sub000/plot"
	"github.com/Chia-Network/pos2-chip-sub000/pos"
)

var VERSION = "SELFBUILD"

type runStats struct {
	K              int           `json:"k"`
	Strength       int           `json:"strength"`
	Table3Entries  int           `json:"table3_entries"`
	Table4Entries  int           `json:"table4_entries"`
	Table5Entries  int           `json:"table5_entries"`
	Elapsed        time.Duration `json:"elapsed_ns"`
}

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "analytics"
	myApp.Usage = "benchmark plot table sizes across k/strength combinations"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.IntSliceFlag{Name: "k", Value: &cli.IntSlice{18, 20}, Usage: "k values to benchmark"},
		cli.IntSliceFlag{Name: "strength", Value: &cli.IntSlice{2}, Usage: "strength values to benchmark"},
	}
	myApp.Action = run

	if err := myApp.Run(os.Args); err != nil {
		log.Println(errors.WithStack(err))
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	var scratch [][]byte

	for _, k := range c.IntSlice("k") {
		for _, strength := range c.IntSlice("strength") {
			var plotID [32]byte
			params, err := pos.NewProofParams(plotID, k, uint8(strength))
			if err != nil {
				return errors.Wrap(err, "validating params")
			}
			core, err := pos.NewCore(params)
			if err != nil {
				return err
			}

			start := time.Now()
			data, err := plot.Plot(core, plot.Options{})
			if err != nil {
				return errors.Wrapf(err, "plotting k=%d strength=%d", k, strength)
			}
			elapsed := time.Since(start)

			stat := runStats{
				K:             k,
				Strength:      strength,
				Table3Entries: len(data.Fragments),
				Table4Entries: len(data.T4),
				Table5Entries: len(data.T5),
				Elapsed:       elapsed,
			}

			raw, err := json.Marshal(stat)
			if err != nil {
				return err
			}
			scratch = append(scratch, snappy.Encode(nil, raw))

			log.Printf("k=%d strength=%d: t3=%d t4=%d t5=%d in %s",
				k, strength, stat.Table3Entries, stat.Table4Entries, stat.Table5Entries, elapsed)
		}
	}

	results := make([]runStats, len(scratch))
	for i, compressed := range scratch {
		raw, err := snappy.Decode(nil, compressed)
		if err != nil {
			return errors.Wrap(err, "decompressing scratch run data")
		}
		if err := json.Unmarshal(raw, &results[i]); err != nil {
			return errors.Wrap(err, "unmarshalling scratch run data")
		}
	}

	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	os.Stdout.Write(out)
	os.Stdout.Write([]byte("\n"))
	return nil
}
