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
	"crypto/sha256"
	"encoding/hex"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"golang.org/x/crypto/pbkdf2"

	"github.com/Chia-Network/pos2-chip-sub000/plot"
	"github.com/Chia-Network/pos2-chip-sub000/plotfmt"
	"github.com/Chia-Network/pos2-chip-sub000/pos"
)

// SALT keys the pbkdf2 derivation that turns a farmer passphrase into a
// 112-byte memo payload, the same derive-from-passphrase shape the
// teacher uses for its pre-shared key.
const SALT = "pos2-memo"

// VERSION is injected by buildflags.
var VERSION = "SELFBUILD"

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "plotter"
	myApp.Usage = "generate a proof-of-space plot file"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.StringFlag{Name: "out, o", Value: "plot.pos2", Usage: "output plot file path"},
		cli.IntFlag{Name: "k", Value: 18, Usage: "plot size parameter k (even, 18-32)"},
		cli.IntFlag{Name: "strength", Value: 2, Usage: "table-3 match key strength (1-8)"},
		cli.StringFlag{Name: "plotid", Usage: "32-byte plot id, hex encoded"},
		cli.StringFlag{Name: "passphrase", Usage: "passphrase used to derive the memo via pbkdf2"},
		cli.IntFlag{Name: "threads", Value: 0, Usage: "worker thread count (0 = hardware_concurrency)"},
		cli.BoolFlag{Name: "validate", Usage: "run the opt-in post-plot validation pass"},
	}
	myApp.Action = run

	if err := myApp.Run(os.Args); err != nil {
		log.Println(errors.WithStack(err))
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	plotID, err := parsePlotID(c.String("plotid"))
	if err != nil {
		return errors.Wrap(err, "parsing plot id")
	}

	params, err := pos.NewProofParams(plotID, c.Int("k"), uint8(c.Int("strength")))
	if err != nil {
		return errors.Wrap(err, "validating plot parameters")
	}

	memo := deriveMemo(c.String("passphrase"))

	start := time.Now()
	log.Printf("plotting k=%d strength=%d plot_id=%s", params.K(), params.Strength(), hex.EncodeToString(plotID[:]))

	err = plot.CreatePlot(c.String("out"), params, memo, plot.Options{
		NumThreads: c.Int("threads"),
		Validate:   c.Bool("validate"),
	})
	if err != nil {
		return errors.Wrap(err, "creating plot")
	}

	log.Printf("plot written to %s in %s", c.String("out"), time.Since(start))
	return nil
}

func parsePlotID(hexStr string) ([32]byte, error) {
	var id [32]byte
	if hexStr == "" {
		return id, nil
	}
	decoded, err := hex.DecodeString(hexStr)
	if err != nil {
		return id, err
	}
	if len(decoded) != 32 {
		return id, errors.Wrap(pos.ErrInvalidParams, "plot id must be exactly 32 bytes")
	}
	copy(id[:], decoded)
	return id, nil
}

func deriveMemo(passphrase string) plotfmt.Memo {
	derived := pbkdf2.Key([]byte(passphrase), []byte(SALT), 4096, 112, sha256.New)
	var memo plotfmt.Memo
	copy(memo.PoolContractPuzzleHash[:], derived[0:32])
	copy(memo.FarmerPublicKey[:], derived[32:80])
	copy(memo.LocalSecretKey[:], derived[80:112])
	return memo
}
