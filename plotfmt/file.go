package plotfmt

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/Chia-Network/pos2-chip-sub000/pos"
)

const (
	magic            = "pos2"
	versionBaseline  = 2
	versionRetainX   = 3
	headerFixedSize  = 159 // through num_chunks, exclusive of the chunk-offset table
	memoSize         = 32 + 48 + 32
	chunkRangeShift  = 16 // chunk width is 2^(k+16)
	stubBitsMargin   = 2  // stub_bits = k - 2
)

// Memo is the opaque 112-byte payload stored between the strength byte
// and the chunk count: pool contract puzzle hash, farmer public key,
// and local secret key, each field-width frozen by the on-disk format.
type Memo struct {
	PoolContractPuzzleHash [32]byte
	FarmerPublicKey        [48]byte
	LocalSecretKey         [32]byte
}

func (m Memo) marshal() [memoSize]byte {
	var out [memoSize]byte
	copy(out[0:32], m.PoolContractPuzzleHash[:])
	copy(out[32:80], m.FarmerPublicKey[:])
	copy(out[80:112], m.LocalSecretKey[:])
	return out
}

func unmarshalMemo(b []byte) Memo {
	var m Memo
	copy(m.PoolContractPuzzleHash[:], b[0:32])
	copy(m.FarmerPublicKey[:], b[32:80])
	copy(m.LocalSecretKey[:], b[80:112])
	return m
}

// Header is the fixed-layout prefix of a plot file.
type Header struct {
	Version   byte
	PlotID    [32]byte
	K         int
	Strength  uint8
	Memo      Memo
	NumChunks uint64
}

// File is a lazily-read plot file: the header and chunk-offset table are
// read on Open, and chunk bodies are decompressed on demand by
// ReadChunk/GetProofFragmentsInRange.
type File struct {
	f       *os.File
	header  Header
	offsets []uint64
	params  pos.ProofParams
}

// Create writes a new plot file containing the given per-chunk fragment
// slices (already partitioned and sorted per the chunking contract) and
// returns it reopened for reading.
func Create(path string, params pos.ProofParams, memo Memo, chunkFragments [][]pos.ProofFragment) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(pos.ErrIoError, err.Error())
	}

	numChunks := uint64(len(chunkFragments))
	chunkRangeSize := uint64(1) << uint(params.K()+chunkRangeShift)
	stubBits := params.K() - stubBitsMargin

	var hdr [headerFixedSize]byte
	copy(hdr[0:4], magic)
	hdr[4] = versionBaseline
	copy(hdr[5:37], params.PlotID()[:])
	hdr[37] = byte(params.K())
	hdr[38] = byte(params.Strength())
	memoBytes := memo.marshal()
	copy(hdr[39:39+memoSize], memoBytes[:])
	binary.LittleEndian.PutUint64(hdr[headerFixedSize-8:headerFixedSize], numChunks)

	if _, err := f.Write(hdr[:]); err != nil {
		return nil, errors.Wrap(pos.ErrIoError, err.Error())
	}

	offsetTablePos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, errors.Wrap(pos.ErrIoError, err.Error())
	}
	offsetTableSize := int64(8 * numChunks)
	if _, err := f.Seek(offsetTableSize, io.SeekCurrent); err != nil {
		return nil, errors.Wrap(pos.ErrIoError, err.Error())
	}

	offsets := make([]uint64, numChunks)
	for i, fragments := range chunkFragments {
		curOff, err := f.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, errors.Wrap(pos.ErrIoError, err.Error())
		}
		offsets[i] = uint64(curOff)

		rangeStart := uint64(i) * chunkRangeSize
		body, err := CompressChunk(fragments, rangeStart, stubBits)
		if err != nil {
			return nil, errors.Wrap(err, "compressing chunk")
		}

		var lenBuf [8]byte
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(body)))
		if _, err := f.Write(lenBuf[:]); err != nil {
			return nil, errors.Wrap(pos.ErrIoError, err.Error())
		}
		if _, err := f.Write(body); err != nil {
			return nil, errors.Wrap(pos.ErrIoError, err.Error())
		}
	}

	if _, err := f.Seek(offsetTablePos, io.SeekStart); err != nil {
		return nil, errors.Wrap(pos.ErrIoError, err.Error())
	}
	offsetBuf := make([]byte, offsetTableSize)
	for i, off := range offsets {
		binary.LittleEndian.PutUint64(offsetBuf[i*8:], off)
	}
	if _, err := f.Write(offsetBuf); err != nil {
		return nil, errors.Wrap(pos.ErrIoError, err.Error())
	}

	if err := f.Close(); err != nil {
		return nil, errors.Wrap(pos.ErrIoError, err.Error())
	}
	return Open(path, params)
}


// Open reads a plot file's header and chunk-offset table, leaving chunk
// bodies to be read lazily.
func Open(path string, params pos.ProofParams) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(pos.ErrIoError, err.Error())
	}

	var hdr [headerFixedSize]byte
	if _, err := io.ReadFull(f, hdr[:]); err != nil {
		f.Close()
		return nil, errors.Wrap(pos.ErrIoError, "reading header")
	}
	if string(hdr[0:4]) != magic {
		f.Close()
		return nil, errors.Wrap(pos.ErrBadFormat, "magic mismatch")
	}
	version := hdr[4]
	if version != versionBaseline && version != versionRetainX {
		f.Close()
		return nil, errors.Wrap(pos.ErrBadFormat, "unsupported version")
	}

	header := Header{Version: version}
	copy(header.PlotID[:], hdr[5:37])
	header.K = int(hdr[37])
	header.Strength = hdr[38]
	header.Memo = unmarshalMemo(hdr[39 : 39+memoSize])
	header.NumChunks = binary.LittleEndian.Uint64(hdr[headerFixedSize-8 : headerFixedSize])

	offsets := make([]uint64, header.NumChunks)
	offsetBuf := make([]byte, 8*header.NumChunks)
	if _, err := io.ReadFull(f, offsetBuf); err != nil {
		f.Close()
		return nil, errors.Wrap(pos.ErrIoError, "reading chunk-offset table")
	}
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint64(offsetBuf[i*8:])
	}

	return &File{f: f, header: header, offsets: offsets, params: params}, nil
}

func (pf *File) Close() error { return pf.f.Close() }

func (pf *File) Header() Header { return pf.header }

// chunkRangeSize returns 2^(k+16), the value-width of one chunk.
func (pf *File) chunkRangeSize() uint64 {
	return uint64(1) << uint(pf.params.K()+chunkRangeShift)
}

// ReadChunk seeks to chunk i's stored offset, reads its length-prefixed
// body, and decompresses it.
func (pf *File) ReadChunk(i int) ([]pos.ProofFragment, error) {
	if i < 0 || i >= len(pf.offsets) {
		return nil, errors.Wrap(pos.ErrRangeError, "chunk index out of bounds")
	}
	if _, err := pf.f.Seek(int64(pf.offsets[i]), io.SeekStart); err != nil {
		return nil, errors.Wrap(pos.ErrIoError, err.Error())
	}
	var lenBuf [8]byte
	if _, err := io.ReadFull(pf.f, lenBuf[:]); err != nil {
		return nil, errors.Wrap(pos.ErrIoError, "reading chunk length")
	}
	bodyLen := binary.LittleEndian.Uint64(lenBuf[:])
	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(pf.f, body); err != nil {
		return nil, errors.Wrap(pos.ErrIoError, "reading chunk body")
	}

	rangeStart := uint64(i) * pf.chunkRangeSize()
	stubBits := pf.params.K() - stubBitsMargin
	fragments, err := DecompressChunk(body, rangeStart, stubBits)
	if err != nil {
		return nil, errors.Wrap(pos.ErrBadFormat, err.Error())
	}
	return fragments, nil
}

// GetProofFragmentsInRange returns every fragment in r, requiring r to
// fall entirely within a single chunk.
func (pf *File) GetProofFragmentsInRange(r pos.Range) ([]pos.ProofFragment, error) {
	chunkSize := pf.chunkRangeSize()
	startChunk := r.Start / chunkSize
	endChunk := r.End / chunkSize
	if startChunk != endChunk {
		return nil, errors.Wrap(pos.ErrRangeError, "range spans multiple chunks")
	}

	fragments, err := pf.ReadChunk(int(startChunk))
	if err != nil {
		return nil, err
	}

	var out []pos.ProofFragment
	for _, f := range fragments {
		if r.InRange(f) {
			out = append(out, f)
		}
	}
	return out, nil
}
