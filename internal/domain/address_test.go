package domain

import (
	"errors"
	"testing"
)

func TestAddress_Thread_InRange(t *testing.T) {
	for threadCount := 1; threadCount <= 255; threadCount++ {
		for first := 0; first <= 255; first++ {
			var a Address
			a[0] = byte(first)

			got := a.Thread(uint8(threadCount))
			if int(got) >= threadCount {
				t.Fatalf("Thread(%d) for first byte %d = %d, out of range", threadCount, first, got)
			}
			if again := a.Thread(uint8(threadCount)); again != got {
				t.Fatalf("Thread(%d) not deterministic: %d != %d", threadCount, got, again)
			}
		}
	}
}

func TestAddress_Thread_PowerOfTwoUsesHighBits(t *testing.T) {
	tests := []struct {
		first       byte
		threadCount uint8
		want        uint8
	}{
		{first: 0x00, threadCount: 32, want: 0},
		{first: 0x28, threadCount: 32, want: 5},
		{first: 0xA0, threadCount: 32, want: 20},
		{first: 0xFF, threadCount: 32, want: 31},
		{first: 0x80, threadCount: 2, want: 1},
		{first: 0x7F, threadCount: 2, want: 0},
	}

	for _, tt := range tests {
		var a Address
		a[0] = tt.first
		if got := a.Thread(tt.threadCount); got != tt.want {
			t.Errorf("Thread(%d) for first byte %#x = %d, want %d", tt.threadCount, tt.first, got, tt.want)
		}
	}
}

func TestAddress_Thread_ZeroThreads(t *testing.T) {
	a := Address{0xFF}
	if got := a.Thread(0); got != 0 {
		t.Errorf("Thread(0) = %d, want 0", got)
	}
}

func TestAddress_TextRoundTrip(t *testing.T) {
	key := PrivateKey{1, 2, 3}
	addr := AddressFromPublicKey(key.PublicKey())

	parsed, err := ParseAddress(addr.String())
	if err != nil {
		t.Fatalf("ParseAddress: %v", err)
	}
	if parsed != addr {
		t.Errorf("round trip mismatch: %s != %s", parsed, addr)
	}
}

func TestParseAddress_BadChecksum(t *testing.T) {
	addr := AddressFromPublicKey(PrivateKey{7}.PublicKey())
	s := addr.String()

	// Flip the last character to another base58 digit.
	last := s[len(s)-1]
	repl := byte('2')
	if last == repl {
		repl = '3'
	}
	corrupted := s[:len(s)-1] + string(repl)

	_, err := ParseAddress(corrupted)
	if err == nil {
		t.Fatal("expected error for corrupted address")
	}
	if !errors.Is(err, ErrInvalidChecksum) && !errors.Is(err, ErrInvalidLength) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseAddress_WrongLength(t *testing.T) {
	_, err := ParseAddress(encodeCheck([]byte{1, 2, 3}))
	if !errors.Is(err, ErrInvalidLength) {
		t.Errorf("expected ErrInvalidLength, got %v", err)
	}
}
