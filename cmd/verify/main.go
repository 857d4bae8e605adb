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
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/Chia-Network/pos2-chip-sub000/pos"
)

var VERSION = "SELFBUILD"

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "verify"
	myApp.Usage = "validate a full 128-x proof against a challenge"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.StringFlag{Name: "plotid", Usage: "32-byte plot id, hex encoded"},
		cli.IntFlag{Name: "k", Value: 18, Usage: "plot size parameter k"},
		cli.IntFlag{Name: "strength", Value: 2, Usage: "table-3 match key strength"},
		cli.StringFlag{Name: "challenge, c", Usage: "32-byte challenge, hex encoded"},
		cli.StringFlag{Name: "proof", Usage: "128 comma-separated x-values, decimal"},
	}
	myApp.Action = run

	if err := myApp.Run(os.Args); err != nil {
		log.Println(errors.WithStack(err))
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	var plotID, challenge [32]byte
	if s := c.String("plotid"); s != "" {
		b, err := hex.DecodeString(s)
		if err != nil || len(b) != 32 {
			return errors.Wrap(pos.ErrInvalidParams, "plot id must be exactly 32 bytes, hex encoded")
		}
		copy(plotID[:], b)
	}
	if s := c.String("challenge"); s != "" {
		b, err := hex.DecodeString(s)
		if err != nil || len(b) != 32 {
			return errors.Wrap(pos.ErrInvalidParams, "challenge must be exactly 32 bytes, hex encoded")
		}
		copy(challenge[:], b)
	}

	params, err := pos.NewProofParams(plotID, c.Int("k"), uint8(c.Int("strength")))
	if err != nil {
		return errors.Wrap(err, "validating proof params")
	}

	var fullProof [pos.TotalXsInProof]uint32
	parts := strings.Split(c.String("proof"), ",")
	if len(parts) != pos.TotalXsInProof {
		return errors.Wrapf(pos.ErrInvalidParams, "expected %d x-values, got %d", pos.TotalXsInProof, len(parts))
	}
	for i, part := range parts {
		var v uint32
		if _, err := fmt.Sscan(strings.TrimSpace(part), &v); err != nil {
			return errors.Wrapf(pos.ErrInvalidParams, "x-value %d: %v", i, err)
		}
		fullProof[i] = v
	}

	chain, ok, err := pos.ValidateProof(params, fullProof, challenge)
	if err != nil {
		return errors.Wrap(err, "validating proof")
	}
	if !ok {
		log.Println("proof INVALID")
		os.Exit(1)
	}
	log.Printf("proof VALID, quality chain links: %v", chain)
	return nil
}
