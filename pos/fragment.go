package pos

// ProofFragment is 2k bits of Feistel ciphertext: the encrypted upper
// halves of the four odd-indexed x-values (x1, x3, x5, x7) that make up
// one quarter of a full 128-x proof.
type ProofFragment = uint64

// ProofFragmentCodec encrypts/decrypts proof fragments and extracts the
// partition bits a fragment's own bit pattern encodes (partition
// assignment is never stored separately — it is read back out of the
// ciphertext itself).
type ProofFragmentCodec struct {
	params ProofParams
	cipher *FeistelCipher
}

func NewProofFragmentCodec(params ProofParams) (*ProofFragmentCodec, error) {
	cipher, err := NewFeistelCipher(params.PlotID(), params.K(), 4)
	if err != nil {
		return nil, err
	}
	return &ProofFragmentCodec{params: params, cipher: cipher}, nil
}

// EncodeBits encrypts a pre-packed [x1(k/2)][x3(k/2)][x5(k/2)][x7(k/2)]
// value directly.
func (c *ProofFragmentCodec) EncodeBits(allXBits uint64) (ProofFragment, error) {
	return c.cipher.Encrypt(allXBits)
}

// Encode packs the upper halves of x_values[0,2,4,6] (x1,x3,x5,x7) and
// encrypts them into a single proof fragment.
func (c *ProofFragmentCodec) Encode(xValues [8]uint32) (ProofFragment, error) {
	k := c.params.K()
	x1 := xValues[0] >> uint(k/2)
	x3 := xValues[2] >> uint(k/2)
	x5 := xValues[4] >> uint(k/2)
	x7 := xValues[6] >> uint(k/2)
	var allXBits uint64
	allXBits |= uint64(x1) << uint(k*3/2)
	allXBits |= uint64(x3) << uint(k*2/2)
	allXBits |= uint64(x5) << uint(k*1/2)
	allXBits |= uint64(x7) << uint(k*0/2)
	return c.cipher.Encrypt(allXBits)
}

func (c *ProofFragmentCodec) Decode(fragment ProofFragment) (uint64, error) {
	return c.cipher.Decrypt(fragment)
}

// bitsWithMSBAsZero treats bit 0 as the fragment's most-significant bit,
// returning len bits starting at startBitsIncl.
func (c *ProofFragmentCodec) bitsWithMSBAsZero(fragment ProofFragment, startBitsIncl, length int) uint64 {
	totalBits := c.params.K() * 2
	shift := totalBits - startBitsIncl - length
	return (fragment >> uint(shift)) & (uint64(1)<<uint(length) - 1)
}

// ExtractT3OrderBits returns the 2 order bits immediately following the
// partition bits.
func (c *ProofFragmentCodec) ExtractT3OrderBits(fragment ProofFragment) uint32 {
	return uint32(c.bitsWithMSBAsZero(fragment, c.params.NumPartitionBits(), 2))
}

// ExtractT3RPartitionBits returns the LSB-side partition bits.
func (c *ProofFragmentCodec) ExtractT3RPartitionBits(fragment ProofFragment) uint32 {
	return uint32(fragment & (uint64(1)<<uint(c.params.NumPartitionBits()) - 1))
}

// ExtractT3LPartitionBits returns the MSB-side partition bits.
func (c *ProofFragmentCodec) ExtractT3LPartitionBits(fragment ProofFragment) uint32 {
	return uint32(c.bitsWithMSBAsZero(fragment, 0, c.params.NumPartitionBits()))
}

// LateralToT4Partition folds the L-partition value into one of
// 2*NumPartitions lateral buckets, using the top order bit to pick
// whether this fragment's L side sits in the low or high half.
func (c *ProofFragmentCodec) LateralToT4Partition(fragment ProofFragment) uint32 {
	topOrderBit := c.ExtractT3OrderBits(fragment) >> 1
	if topOrderBit == 0 {
		return c.ExtractT3LPartitionBits(fragment)
	}
	return c.ExtractT3LPartitionBits(fragment) + uint32(c.params.NumPartitions())
}

// RT4Partition is the mirror-image bucket assignment for the R side.
func (c *ProofFragmentCodec) RT4Partition(fragment ProofFragment) uint32 {
	topOrderBit := c.ExtractT3OrderBits(fragment) >> 1
	if topOrderBit == 0 {
		return c.ExtractT3RPartitionBits(fragment) + uint32(c.params.NumPartitions())
	}
	return c.ExtractT3RPartitionBits(fragment)
}

// ValidateProofFragment decrypts fragment and checks that its four
// recovered half-x values match the upper halves of xValues[0,2,4,6].
func (c *ProofFragmentCodec) ValidateProofFragment(fragment ProofFragment, xValues [8]uint32) (bool, error) {
	halfK := uint(c.params.K() / 2)
	x1 := xValues[0] >> halfK
	x3 := xValues[2] >> halfK
	x5 := xValues[4] >> halfK
	x7 := xValues[6] >> halfK

	decrypted, err := c.cipher.Decrypt(fragment)
	if err != nil {
		return false, err
	}
	mask := uint64(1)<<halfK - 1
	dx1 := uint32((decrypted >> (halfK * 3)) & mask)
	dx3 := uint32((decrypted >> (halfK * 2)) & mask)
	dx5 := uint32((decrypted >> (halfK * 1)) & mask)
	dx7 := uint32(decrypted & mask)

	return x1 == dx1 && x3 == dx3 && x5 == dx5 && x7 == dx7, nil
}

// GetXBitsFromProofFragment decrypts fragment and returns the four
// recovered half-x values [x1, x3, x5, x7] in that order.
func (c *ProofFragmentCodec) GetXBitsFromProofFragment(fragment ProofFragment) ([4]uint32, error) {
	decrypted, err := c.cipher.Decrypt(fragment)
	if err != nil {
		return [4]uint32{}, err
	}
	halfK := uint(c.params.K() / 2)
	mask := uint64(1)<<halfK - 1
	x1 := uint32((decrypted >> (halfK * 3)) & mask)
	x3 := uint32((decrypted >> (halfK * 2)) & mask)
	x5 := uint32((decrypted >> (halfK * 1)) & mask)
	x7 := uint32(decrypted & mask)
	return [4]uint32{x1, x3, x5, x7}, nil
}
