// Package fse implements a small from-scratch byte-stream entropy coder
// with the same four-function shape as the reference plot format's
// POS2_FSE_compress/decompress/compressBound/isError contract: an
// order-0 range coder over byte symbols, using a static frequency table
// counted from the whole input and stored ahead of the coded stream. No example or
// ecosystem package exports an importable raw FSE/tANS byte-stream
// codec (klauspost/compress's fse/tANS tables are internal-only), so
// this package is a deliberate, documented from-scratch implementation
// rather than a wired third-party dependency — see DESIGN.md.
package fse

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrCompressFailed mirrors POS2_FSE_isError's sentinel condition.
var ErrCompressFailed = errors.New("fse: compress/decompress failed")

// CompressBound returns an upper bound on the compressed size of srcSize
// input bytes: a 256-entry frequency table plus a worst-case 2 bytes per
// symbol (this coder never expands beyond roughly 9 bits/symbol).
func CompressBound(srcSize int) int {
	return 256*4 + srcSize*2 + 16
}

// IsError reports whether a size returned by Compress/Decompress denotes
// failure (represented here as a negative size).
func IsError(size int) bool { return size < 0 }

// Compress range-codes src using static order-0 byte frequencies counted
// over all of src, writing the frequency table followed by the coded
// stream into dst.
// Returns the number of bytes written, or a negative value on failure.
func Compress(dst []byte, src []byte) int {
	if len(src) == 0 {
		return 0
	}
	var freq [256]uint32
	for _, b := range src {
		freq[b]++
	}

	enc := newRangeEncoder()
	cum := cumulativeFreq(freq, uint32(len(src)))
	for _, b := range src {
		enc.encode(cum[b], cum[b+1]-cum[b], uint32(len(src)))
	}
	payload := enc.finish()

	need := 256*4 + 4 + len(payload)
	if len(dst) < need {
		return -1
	}
	off := 0
	for i := 0; i < 256; i++ {
		binary.LittleEndian.PutUint32(dst[off:], freq[i])
		off += 4
	}
	binary.LittleEndian.PutUint32(dst[off:], uint32(len(payload)))
	off += 4
	copy(dst[off:], payload)
	return off + len(payload)
}

// Decompress reverses Compress, writing exactly len(dst) decoded bytes
// (the caller already knows num_values from the chunk header) into dst.
// Returns the number of bytes written, or a negative value on failure.
func Decompress(dst []byte, src []byte) int {
	if len(dst) == 0 {
		return 0
	}
	if len(src) < 256*4+4 {
		return -1
	}
	var freq [256]uint32
	off := 0
	var total uint32
	for i := 0; i < 256; i++ {
		freq[i] = binary.LittleEndian.Uint32(src[off:])
		total += freq[i]
		off += 4
	}
	payloadLen := binary.LittleEndian.Uint32(src[off:])
	off += 4
	if uint32(len(dst)) != total {
		return -1
	}
	if off+int(payloadLen) > len(src) {
		return -1
	}
	payload := src[off : off+int(payloadLen)]

	cum := cumulativeFreq(freq, total)
	dec := newRangeDecoder(payload)
	for i := range dst {
		target := dec.getFreq(total)
		sym := findSymbol(cum, target)
		dec.decode(cum[sym], cum[sym+1]-cum[sym], total)
		dst[i] = byte(sym)
	}
	return len(dst)
}

func cumulativeFreq(freq [256]uint32, total uint32) [257]uint32 {
	var cum [257]uint32
	var acc uint32
	for i := 0; i < 256; i++ {
		f := freq[i]
		if f == 0 {
			f = 0
		}
		cum[i] = acc
		acc += f
	}
	cum[256] = acc
	_ = total
	return cum
}

func findSymbol(cum [257]uint32, target uint32) int {
	lo, hi := 0, 256
	for lo < hi {
		mid := (lo + hi) / 2
		if cum[mid+1] <= target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

const (
	rcTop    = uint32(1) << 24
	rcBottom = uint32(1) << 16
)

type rangeEncoder struct {
	low   uint64
	rang  uint32
	out   []byte
}

func newRangeEncoder() *rangeEncoder {
	return &rangeEncoder{rang: 0xFFFFFFFF}
}

func (e *rangeEncoder) encode(cumFreq, freq, totFreq uint32) {
	r := e.rang / totFreq
	e.low += uint64(r) * uint64(cumFreq)
	e.rang = r * freq
	for (uint32(e.low)^uint32(e.low+uint64(e.rang)))&0xFF000000 == 0 ||
		(e.rang < rcBottom && func() bool { e.rang = -uint32(e.low) & (rcBottom - 1); return true }()) {
		e.out = append(e.out, byte(e.low>>24))
		e.low = (e.low << 8) & 0xFFFFFFFF
		e.rang <<= 8
	}
}

func (e *rangeEncoder) finish() []byte {
	for i := 0; i < 4; i++ {
		e.out = append(e.out, byte(e.low>>24))
		e.low = (e.low << 8) & 0xFFFFFFFF
	}
	return e.out
}

type rangeDecoder struct {
	src  []byte
	pos  int
	low  uint32
	rang uint32
	code uint32
}

func newRangeDecoder(src []byte) *rangeDecoder {
	d := &rangeDecoder{src: src, rang: 0xFFFFFFFF}
	for i := 0; i < 4; i++ {
		d.code = (d.code << 8) | uint32(d.nextByte())
	}
	return d
}

func (d *rangeDecoder) nextByte() byte {
	if d.pos >= len(d.src) {
		return 0
	}
	b := d.src[d.pos]
	d.pos++
	return b
}

func (d *rangeDecoder) getFreq(totFreq uint32) uint32 {
	d.rang /= totFreq
	v := (d.code - d.low) / d.rang
	if v >= totFreq {
		v = totFreq - 1
	}
	return v
}

func (d *rangeDecoder) decode(cumFreq, freq, totFreq uint32) {
	d.low += d.rang * cumFreq
	d.rang *= freq
	for (d.low^(d.low+d.rang))&0xFF000000 == 0 ||
		(d.rang < rcBottom && func() bool { d.rang = -d.low & (rcBottom - 1); return true }()) {
		d.code = (d.code << 8) | uint32(d.nextByte())
		d.low <<= 8
		d.rang <<= 8
	}
}
