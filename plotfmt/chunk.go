// Package plotfmt implements the on-disk plot file container: chunked,
// delta+entropy compressed storage for a table's proof fragments, with
// an offset table for random-access reads. Grounded on
// _examples/original_source/src/plot/ChunkCompressor.hpp and
// PlotFile.hpp (constants named per spec.md §4.5).
package plotfmt

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/Chia-Network/pos2-chip-sub000/plotfmt/fse"
	"github.com/Chia-Network/pos2-chip-sub000/pos"
)

// ErrDeltaOverflow mirrors ChunkCompressor's "delta too large to fit in
// one byte" throw: a chunk's fragments were not sorted/dense enough for
// the configured stub width.
var ErrDeltaOverflow = errors.New("plotfmt: delta too large to fit in one byte")

const chunkHeaderSize = 12 // num_values, fse_size, stub_bytes_size, each u32 LE

// CompressChunk delta-encodes a sorted run of proof fragments against
// rangeStart (the chunk's inclusive lower bound), splits each delta into
// a stubBits-wide low stub and a high delta byte, entropy-codes the
// delta-byte stream with fse, and bit-packs the stub stream. Returns the
// full chunk record (header + fse payload + packed stubs).
func CompressChunk(fragments []pos.ProofFragment, rangeStart uint64, stubBits int) ([]byte, error) {
	if len(fragments) == 0 {
		return make([]byte, chunkHeaderSize), nil
	}

	deltaBytes := make([]byte, len(fragments))
	stubs := make([]uint64, len(fragments))
	prev := rangeStart
	for i, f := range fragments {
		if f < prev {
			return nil, errors.Wrap(ErrDeltaOverflow, "fragment sequence not non-decreasing")
		}
		delta := f - prev
		stubMask := uint64(1)<<uint(stubBits) - 1
		stubs[i] = delta & stubMask
		high := delta >> uint(stubBits)
		if high > 0xFF {
			return nil, ErrDeltaOverflow
		}
		deltaBytes[i] = byte(high)
		prev = f
	}

	fseBound := fse.CompressBound(len(deltaBytes))
	fseBuf := make([]byte, fseBound)
	fseSize := fse.Compress(fseBuf, deltaBytes)
	if fse.IsError(fseSize) {
		return nil, errors.Wrap(fse.ErrCompressFailed, "compressing delta bytes")
	}
	fseBuf = fseBuf[:fseSize]

	packedStubs := packStubs(stubs, stubBits)

	out := make([]byte, chunkHeaderSize+len(fseBuf)+len(packedStubs))
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(fragments)))
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(fseBuf)))
	binary.LittleEndian.PutUint32(out[8:12], uint32(len(packedStubs)))
	off := chunkHeaderSize
	off += copy(out[off:], fseBuf)
	copy(out[off:], packedStubs)
	return out, nil
}

// DecompressChunk reverses CompressChunk, reconstructing the original
// non-decreasing fragment sequence.
func DecompressChunk(chunk []byte, rangeStart uint64, stubBits int) ([]pos.ProofFragment, error) {
	if len(chunk) < chunkHeaderSize {
		return nil, errors.New("plotfmt: truncated chunk header")
	}
	numValues := binary.LittleEndian.Uint32(chunk[0:4])
	fseSize := binary.LittleEndian.Uint32(chunk[4:8])
	stubBytesSize := binary.LittleEndian.Uint32(chunk[8:12])
	if numValues == 0 {
		return nil, nil
	}

	off := chunkHeaderSize
	if off+int(fseSize)+int(stubBytesSize) > len(chunk) {
		return nil, errors.New("plotfmt: truncated chunk body")
	}
	fseBuf := chunk[off : off+int(fseSize)]
	off += int(fseSize)
	stubBuf := chunk[off : off+int(stubBytesSize)]

	deltaBytes := make([]byte, numValues)
	n := fse.Decompress(deltaBytes, fseBuf)
	if fse.IsError(n) {
		return nil, errors.Wrap(fse.ErrCompressFailed, "decompressing delta bytes")
	}

	stubs := unpackStubs(stubBuf, int(numValues), stubBits)

	fragments := make([]pos.ProofFragment, numValues)
	prev := rangeStart
	for i := range fragments {
		delta := (uint64(deltaBytes[i]) << uint(stubBits)) | stubs[i]
		prev += delta
		fragments[i] = prev
	}
	return fragments, nil
}

// packStubs bit-packs values (each assumed to fit in stubBits bits) into
// a byte slice, LSB-first within each byte and value-order within the
// bitstream, matching ChunkCompressor's accumulate-then-flush-by-byte
// pattern.
func packStubs(values []uint64, stubBits int) []byte {
	if stubBits == 0 {
		return nil
	}
	totalBits := len(values) * stubBits
	out := make([]byte, (totalBits+7)/8)

	var acc uint64
	var accBits int
	bytePos := 0
	for _, v := range values {
		acc |= (v & (uint64(1)<<uint(stubBits) - 1)) << uint(accBits)
		accBits += stubBits
		for accBits >= 8 {
			out[bytePos] = byte(acc)
			acc >>= 8
			accBits -= 8
			bytePos++
		}
	}
	if accBits > 0 {
		out[bytePos] = byte(acc)
	}
	return out
}

// unpackStubs reverses packStubs.
func unpackStubs(packed []byte, count int, stubBits int) []uint64 {
	out := make([]uint64, count)
	if stubBits == 0 {
		return out
	}
	var acc uint64
	var accBits int
	bytePos := 0
	mask := uint64(1)<<uint(stubBits) - 1
	for i := 0; i < count; i++ {
		for accBits < stubBits {
			var next byte
			if bytePos < len(packed) {
				next = packed[bytePos]
			}
			bytePos++
			acc |= uint64(next) << uint(accBits)
			accBits += 8
		}
		out[i] = acc & mask
		acc >>= uint(stubBits)
		accBits -= stubBits
	}
	return out
}
