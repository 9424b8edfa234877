package core

import "testing"

func TestShaRngDeterministic(t *testing.T) {
	r1 := NewShaRng(NewSha())
	r2 := NewShaRng(NewSha())

	for i := 0; i < 32; i++ {
		a := r1.NextU32()
		b := r2.NextU32()
		if a != b {
			t.Fatalf("draw %d diverged: %d != %d", i, a, b)
		}
	}
}

func TestShaRngMixChangesStream(t *testing.T) {
	r1 := NewShaRng(NewSha())
	r2 := NewShaRng(NewSha())

	r2.Mix(DigestFromWords([8]uint32{1, 2, 3, 4, 5, 6, 7, 8}))

	same := true
	for i := 0; i < 8; i++ {
		if r1.NextU32() != r2.NextU32() {
			same = false
		}
	}
	if same {
		t.Fatal("mixing a digest did not change the output stream")
	}
}

func TestFpRandomInRange(t *testing.T) {
	rng := NewShaRng(NewSha())
	for i := 0; i < 64; i++ {
		v := rng.NextFp()
		if uint64(v) >= FpModulus {
			t.Fatalf("draw %d: %d >= modulus", i, v)
		}
	}
}

func TestFp4RandomDrawsFourWords(t *testing.T) {
	rng := NewShaRng(NewSha())
	before := rng.cursor
	_ = rng.NextFp4()
	drawn := rng.cursor - before
	if drawn < 0 {
		drawn += DigestWords
	}
	if drawn != 4 {
		t.Fatalf("Fp4Random advanced cursor by %d words, want 4", drawn)
	}
}
