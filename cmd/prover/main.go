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

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/Chia-Network/pos2-chip-sub000/plotfmt"
	"github.com/Chia-Network/pos2-chip-sub000/pos"
	"github.com/Chia-Network/pos2-chip-sub000/prove"
)

var VERSION = "SELFBUILD"

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "prover"
	myApp.Usage = "answer a challenge against a plot file with quality chains"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.StringFlag{Name: "plot, f", Usage: "path to a plot file"},
		cli.StringFlag{Name: "challenge, c", Usage: "32-byte challenge, hex encoded"},
	}
	myApp.Action = run

	if err := myApp.Run(os.Args); err != nil {
		log.Println(errors.WithStack(err))
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	challengeBytes, err := hex.DecodeString(c.String("challenge"))
	if err != nil || len(challengeBytes) != 32 {
		return errors.Wrap(pos.ErrInvalidParams, "challenge must be exactly 32 bytes, hex encoded")
	}
	var challenge [32]byte
	copy(challenge[:], challengeBytes)

	// Header-only open to learn k/strength; plotfmt.Open needs params for
	// chunk-range arithmetic, so probe with a throwaway k=18 params first
	// purely to read the header, then re-open with the header's own values.
	probe, err := pos.NewProofParams([32]byte{}, 18, 1)
	if err != nil {
		return err
	}
	pf, err := plotfmt.Open(c.String("plot"), probe)
	if err != nil {
		return errors.Wrap(err, "opening plot file")
	}
	header := pf.Header()
	pf.Close()

	params, err := pos.NewProofParams(header.PlotID, header.K, header.Strength)
	if err != nil {
		return errors.Wrap(err, "deriving proof params from plot header")
	}
	pf, err = plotfmt.Open(c.String("plot"), params)
	if err != nil {
		return errors.Wrap(err, "reopening plot file")
	}
	defer pf.Close()

	core, err := pos.NewCore(params)
	if err != nil {
		return err
	}

	chains, err := prove.Prove(core, pf, challenge, nil)
	if err != nil {
		return errors.Wrap(err, "proving challenge")
	}

	log.Printf("found %d quality chain(s)", len(chains))
	for i, chain := range chains {
		log.Printf("chain %d: %v", i, chain.Fragments)
	}
	return nil
}
