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

package main

import (
	"encoding/hex"
	"log"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/Chia-Network/pos2-chip-sub000/pos"
	"github.com/Chia-Network/pos2-chip-sub000/solve"
)

var VERSION = "SELFBUILD"

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "solver"
	myApp.Usage = "reconstruct full 128-x proofs from a 16-fragment quality chain"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.StringFlag{Name: "plotid", Usage: "32-byte plot id, hex encoded"},
		cli.IntFlag{Name: "k", Value: 18, Usage: "plot size parameter k"},
		cli.IntFlag{Name: "strength", Value: 2, Usage: "table-3 match key strength"},
		cli.StringFlag{Name: "fragments", Usage: "16 comma-separated 64-bit proof fragments, hex encoded"},
	}
	myApp.Action = run

	if err := myApp.Run(os.Args); err != nil {
		log.Println(errors.WithStack(err))
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	var plotID [32]byte
	if s := c.String("plotid"); s != "" {
		b, err := hex.DecodeString(s)
		if err != nil || len(b) != 32 {
			return errors.Wrap(pos.ErrInvalidParams, "plot id must be exactly 32 bytes, hex encoded")
		}
		copy(plotID[:], b)
	}

	params, err := pos.NewProofParams(plotID, c.Int("k"), uint8(c.Int("strength")))
	if err != nil {
		return errors.Wrap(err, "validating proof params")
	}

	var fragments [pos.NumChainLinks]pos.ProofFragment
	parts := strings.Split(c.String("fragments"), ",")
	if len(parts) != pos.NumChainLinks {
		return errors.Wrapf(pos.ErrInvalidParams, "expected %d fragments, got %d", pos.NumChainLinks, len(parts))
	}
	for i, part := range parts {
		b, err := hex.DecodeString(strings.TrimSpace(part))
		if err != nil || len(b) != 8 {
			return errors.Wrapf(pos.ErrInvalidParams, "fragment %d must be 8 bytes, hex encoded", i)
		}
		var v uint64
		for _, by := range b {
			v = v<<8 | uint64(by)
		}
		fragments[i] = v
	}

	proofs, err := solve.SolvePartialProof(fragments, params)
	if err != nil {
		return errors.Wrap(err, "solving partial proof")
	}

	log.Printf("reconstructed %d full proof(s)", len(proofs))
	for i, proof := range proofs {
		log.Printf("proof %d: %v", i, proof)
	}
	return nil
}
