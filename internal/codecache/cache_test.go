package codecache

import (
	"bytes"
	"testing"
)

func TestAppendReturnsMonotonicOffsets(t *testing.T) {
	c, err := New(4096, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	a := []byte{0x90, 0x90, 0x90}
	b := []byte{0xC3}

	offA := c.Append(a)
	offB := c.Append(b)

	if offA != 0 {
		t.Fatalf("first Append offset = %d, want 0", offA)
	}
	if offB != len(a) {
		t.Fatalf("second Append offset = %d, want %d", offB, len(a))
	}
	if c.Pos() != len(a)+len(b) {
		t.Fatalf("Pos() = %d, want %d", c.Pos(), len(a)+len(b))
	}
}

func TestResetRewindsWithoutUnmapping(t *testing.T) {
	c, err := New(4096, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	c.Append([]byte{0x90, 0x90})
	c.Reset()
	if c.Pos() != 0 {
		t.Fatalf("Pos() after Reset = %d, want 0", c.Pos())
	}

	off := c.Append([]byte{0xC3})
	if off != 0 {
		t.Fatalf("Append after Reset offset = %d, want 0", off)
	}
}

func TestCapacityReportsRequestedSize(t *testing.T) {
	c, err := New(8192, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()
	if c.Capacity() != 8192 {
		t.Fatalf("Capacity() = %d, want 8192", c.Capacity())
	}
}

func TestDefaultSizeUsedWhenZero(t *testing.T) {
	c, err := New(0, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()
	if c.Capacity() != DefaultSize {
		t.Fatalf("Capacity() = %d, want %d", c.Capacity(), DefaultSize)
	}
}

func TestBaseAddrNonZeroAfterAppend(t *testing.T) {
	c, err := New(4096, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()
	c.Append([]byte{0x90})
	if c.BaseAddr() == 0 {
		t.Fatal("BaseAddr() = 0, want a mapped address")
	}
}

func TestAppendedBytesAreReadableAtOffset(t *testing.T) {
	c, err := New(4096, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	code := []byte{0x55, 0xAA, 0xFF}
	off := c.Append(code)
	if !bytes.Equal(c.mem[off:off+len(code)], code) {
		t.Fatalf("cache contents at offset %d = % x, want % x", off, c.mem[off:off+len(code)], code)
	}
}
