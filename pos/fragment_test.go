package pos

import "testing"

func TestFragmentEncodeDecodeRoundTrip(t *testing.T) {
	var id [32]byte
	for i := range id {
		id[i] = byte(i * 3)
	}
	params, err := NewProofParams(id, 18, 2)
	if err != nil {
		t.Fatal(err)
	}
	codec, err := NewProofFragmentCodec(params)
	if err != nil {
		t.Fatal(err)
	}

	xValues := [8]uint32{
		1<<18 - 1, 0, 1 << 17, 0, 12345, 0, 1, 0,
	}
	fragment, err := codec.Encode(xValues)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := codec.ValidateProofFragment(fragment, xValues)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected fragment to validate against its source x-values")
	}

	bits, err := codec.GetXBitsFromProofFragment(fragment)
	if err != nil {
		t.Fatal(err)
	}
	halfK := uint(params.K() / 2)
	want := [4]uint32{xValues[0] >> halfK, xValues[2] >> halfK, xValues[4] >> halfK, xValues[6] >> halfK}
	if bits != want {
		t.Errorf("got %v want %v", bits, want)
	}
}

func TestFragmentPartitionBitsFitInRange(t *testing.T) {
	var id [32]byte
	params, err := NewProofParams(id, 20, 2)
	if err != nil {
		t.Fatal(err)
	}
	codec, err := NewProofFragmentCodec(params)
	if err != nil {
		t.Fatal(err)
	}
	fragment, err := codec.EncodeBits(0xABCDEF)
	if err != nil {
		t.Fatal(err)
	}

	maxPartition := uint32(1)<<uint(params.NumPartitionBits()) - 1
	if l := codec.ExtractT3LPartitionBits(fragment); l > maxPartition {
		t.Errorf("l partition %d exceeds max %d", l, maxPartition)
	}
	if r := codec.ExtractT3RPartitionBits(fragment); r > maxPartition {
		t.Errorf("r partition %d exceeds max %d", r, maxPartition)
	}
	if o := codec.ExtractT3OrderBits(fragment); o > 3 {
		t.Errorf("order bits %d exceeds 2-bit range", o)
	}
}
