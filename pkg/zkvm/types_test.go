package zkvm

import "testing"

func TestReceiptEncodeDecodeRoundTrip(t *testing.T) {
	want := &Receipt{
		Journal: []byte("hello journal"),
		Seal:    []uint32{1, 2, 3, 0xdeadbeef, 0},
	}

	got, err := DecodeReceipt(want.Encode())
	if err != nil {
		t.Fatalf("DecodeReceipt: %v", err)
	}
	if string(got.Journal) != string(want.Journal) {
		t.Fatalf("Journal = %q, want %q", got.Journal, want.Journal)
	}
	if len(got.Seal) != len(want.Seal) {
		t.Fatalf("Seal length = %d, want %d", len(got.Seal), len(want.Seal))
	}
	for i := range want.Seal {
		if got.Seal[i] != want.Seal[i] {
			t.Fatalf("Seal[%d] = %#x, want %#x", i, got.Seal[i], want.Seal[i])
		}
	}
}

func TestReceiptEncodeDecodeEmpty(t *testing.T) {
	want := &Receipt{}
	got, err := DecodeReceipt(want.Encode())
	if err != nil {
		t.Fatalf("DecodeReceipt: %v", err)
	}
	if len(got.Journal) != 0 || len(got.Seal) != 0 {
		t.Fatalf("expected an empty receipt, got %+v", got)
	}
}

func TestDecodeReceiptRejectsTruncatedInput(t *testing.T) {
	if _, err := DecodeReceipt([]byte{1, 2}); err == nil {
		t.Fatal("expected an error decoding a buffer too short for a length prefix")
	}
}

func TestDecodeReceiptRejectsBadJournalLength(t *testing.T) {
	buf := []byte{0xff, 0xff, 0xff, 0xff} // claims a 4GiB journal
	if _, err := DecodeReceipt(buf); err == nil {
		t.Fatal("expected an error decoding a receipt with an impossible journal length")
	}
}

func TestDecodeReceiptRejectsPartialSealWord(t *testing.T) {
	r := &Receipt{Journal: nil, Seal: []uint32{1}}
	buf := r.Encode()
	if _, err := DecodeReceipt(buf[:len(buf)-1]); err == nil {
		t.Fatal("expected an error decoding a seal section that isn't a whole number of words")
	}
}

func TestMethodIDBytesRoundTrip(t *testing.T) {
	raw := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	m := MethodIDFromBytes(raw)
	if string(m.Bytes()) != string(raw) {
		t.Fatalf("Bytes() = %v, want %v", m.Bytes(), raw)
	}
}
