package pos

import "github.com/pkg/errors"

// FeistelCipher implements the balanced Feistel construction used to
// encrypt pairs of matched x-values into a single 2k-bit proof fragment.
// The round function is a two-quarter-round mix inspired by ChaCha20;
// round keys are sliced out of the 256-bit plot id at evenly spaced
// offsets so that all `rounds` round keys fit within the available 256
// bits.
type FeistelCipher struct {
	plotID [32]byte
	k      uint64
	rounds uint64
}

// NewFeistelCipher builds a cipher over a 2k-bit block. k must be at most
// 32, and 3*k must not exceed 256 (each round key is 3k bits sliced from
// the 256-bit plot id).
func NewFeistelCipher(plotID [32]byte, k int, rounds int) (*FeistelCipher, error) {
	if k > 32 {
		return nil, errors.Wrap(ErrInvalidParams, "k cannot be greater than 32")
	}
	if 2*k > 256 {
		return nil, errors.Wrap(ErrInvalidParams, "bit_length (2*k) must not exceed 256")
	}
	if 3*k > 256 {
		return nil, errors.Wrap(ErrInvalidParams, "3*k cannot exceed 256 bits")
	}
	return &FeistelCipher{plotID: plotID, k: uint64(k), rounds: uint64(rounds)}, nil
}

func feistelRotateLeft(value, shift, bitLength uint64) uint64 {
	if shift > bitLength {
		shift = bitLength
	}
	var mask uint64
	if bitLength == 64 {
		mask = ^uint64(0)
	} else {
		mask = (1 << bitLength) - 1
	}
	return ((value << shift) & mask) | (value >> (bitLength - shift))
}

// sliceKey extracts numBits bits starting at startBit (MSB-first bit
// numbering over the 256-bit plot id) as a right-aligned uint64.
func (f *FeistelCipher) sliceKey(startBit, numBits uint64) (uint64, error) {
	startByte := startBit / 8
	bitOffset := startBit % 8
	neededBytes := (bitOffset + numBits + 7) / 8
	if startByte+neededBytes > 32 {
		return 0, errors.Wrap(ErrRangeError, "key slice out of range")
	}
	var keySegment uint64
	for i := uint64(0); i < neededBytes; i++ {
		keySegment = (keySegment << 8) | uint64(f.plotID[startByte+i])
	}
	totalBits := neededBytes * 8
	shiftAmount := totalBits - bitOffset - numBits
	var mask uint64
	if numBits >= 64 {
		mask = ^uint64(0)
	} else {
		mask = (1 << numBits) - 1
	}
	return (keySegment >> shiftAmount) & mask, nil
}

func (f *FeistelCipher) getRoundKey(roundNum uint64) (uint64, error) {
	bitsForRound := 3 * f.k
	var startBit uint64
	if f.rounds > 1 {
		startBit = (roundNum * (256 - 3*f.k)) / (f.rounds - 1)
	}
	return f.sliceKey(startBit, bitsForRound)
}

func (f *FeistelCipher) feistelRound(left, right, roundKey uint64) (newLeft, newRight uint64) {
	var bitmask uint64
	if f.k == 64 {
		bitmask = ^uint64(0)
	} else {
		bitmask = (1 << f.k) - 1
	}
	a := right
	b := roundKey & bitmask
	c := (roundKey >> f.k) & bitmask
	d := (roundKey >> (2 * f.k)) & bitmask

	a = (a + b) & bitmask
	d = feistelRotateLeft(d^a, 16, f.k)
	c = (c + d) & bitmask
	b = feistelRotateLeft(b^c, 12, f.k)

	a = (a + b) & bitmask
	d = feistelRotateLeft(d^a, 8, f.k)
	c = (c + d) & bitmask
	b = feistelRotateLeft(b^c, 7, f.k)

	return right, (left ^ b) & bitmask
}

func (f *FeistelCipher) halfMask() uint64 {
	if f.k == 64 {
		return ^uint64(0)
	}
	return (1 << f.k) - 1
}

// Encrypt runs the forward Feistel rounds over a 2k-bit block.
func (f *FeistelCipher) Encrypt(inputValue uint64) (uint64, error) {
	mask := f.halfMask()
	left := (inputValue >> f.k) & mask
	right := inputValue & mask
	for round := uint64(0); round < f.rounds; round++ {
		rk, err := f.getRoundKey(round)
		if err != nil {
			return 0, err
		}
		left, right = f.feistelRound(left, right, rk)
	}
	return (left << f.k) | right, nil
}

// Decrypt reverses Encrypt: rounds run in reverse order, and each round
// swaps its left/right operands relative to Encrypt's call, which inverts
// the Feistel structure without needing a separate inverse round function.
func (f *FeistelCipher) Decrypt(cipherValue uint64) (uint64, error) {
	mask := f.halfMask()
	left := (cipherValue >> f.k) & mask
	right := cipherValue & mask
	for round := f.rounds; round > 0; round-- {
		rk, err := f.getRoundKey(round - 1)
		if err != nil {
			return 0, err
		}
		newLeft, newRight := f.feistelRound(right, left, rk)
		right = newLeft
		left = newRight
	}
	return (left << f.k) | right, nil
}
