package pos

import "testing"

func TestFeistelRoundTrip(t *testing.T) {
	var id [32]byte
	for i := range id {
		id[i] = byte(i * 7)
	}
	cipher, err := NewFeistelCipher(id, 16, 4)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []uint64{0, 1, 0xFFFFFFFF, 0x12345678, 0xDEADBEEF} {
		ct, err := cipher.Encrypt(v)
		if err != nil {
			t.Fatal(err)
		}
		pt, err := cipher.Decrypt(ct)
		if err != nil {
			t.Fatal(err)
		}
		if pt != v {
			t.Errorf("round-trip failed for %#x: got %#x after decrypt(encrypt(x))", v, pt)
		}
	}
}

func TestFeistelRejectsOversizedK(t *testing.T) {
	var id [32]byte
	if _, err := NewFeistelCipher(id, 33, 4); err == nil {
		t.Fatal("expected error for k > 32")
	}
}

func TestFeistelSingleRound(t *testing.T) {
	var id [32]byte
	cipher, err := NewFeistelCipher(id, 20, 1)
	if err != nil {
		t.Fatal(err)
	}
	ct, err := cipher.Encrypt(12345)
	if err != nil {
		t.Fatal(err)
	}
	pt, err := cipher.Decrypt(ct)
	if err != nil {
		t.Fatal(err)
	}
	if pt != 12345 {
		t.Errorf("got %#x want %#x", pt, 12345)
	}
}
