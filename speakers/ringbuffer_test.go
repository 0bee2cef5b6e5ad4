package speakers

import "testing"

func TestNewRingBufferRoundsCapacityUpToPowerOfTwo(t *testing.T) {
	cases := []struct {
		requested int
		want      int
	}{
		{1, 1},
		{100, 128},
		{8192, 8192},
		{8193, 16384},
	}
	for _, tc := range cases {
		rb := NewRingBuffer(tc.requested)
		if rb.Capacity() != tc.want {
			t.Fatalf("NewRingBuffer(%d).Capacity() = %d, want %d", tc.requested, rb.Capacity(), tc.want)
		}
	}
}

func TestRingBufferWriteReadPreservesOrder(t *testing.T) {
	rb := NewRingBuffer(8)
	for i := 0; i < 5; i++ {
		if !rb.Write(float64(i)) {
			t.Fatalf("Write(%d) reported full unexpectedly", i)
		}
	}
	if rb.Available() != 5 {
		t.Fatalf("Available() = %d, want 5", rb.Available())
	}

	dst := make([]float32, 5)
	n := rb.ReadInto(dst)
	if n != 5 {
		t.Fatalf("ReadInto returned %d, want 5", n)
	}
	for i, v := range dst {
		if v != float32(i) {
			t.Fatalf("dst[%d] = %v, want %v", i, v, float32(i))
		}
	}
}

func TestRingBufferWriteFailsWhenFull(t *testing.T) {
	rb := NewRingBuffer(4) // rounds to 4
	for i := 0; i < 4; i++ {
		if !rb.Write(float64(i)) {
			t.Fatalf("Write(%d) failed before buffer full", i)
		}
	}
	if rb.Write(99) {
		t.Fatalf("Write succeeded on a full buffer; want false")
	}
}

func TestRingBufferReadIntoUnderrunReturnsZero(t *testing.T) {
	rb := NewRingBuffer(4)
	dst := make([]float32, 4)
	if n := rb.ReadInto(dst); n != 0 {
		t.Fatalf("ReadInto on empty buffer = %d, want 0", n)
	}
}

func TestRingBufferWrapsAroundCorrectly(t *testing.T) {
	rb := NewRingBuffer(4)
	// fill, drain partially, then write again so head wraps past the end
	// of the backing array.
	for i := 0; i < 4; i++ {
		rb.Write(float64(i))
	}
	dst := make([]float32, 2)
	rb.ReadInto(dst) // drains samples 0,1; tail=2

	rb.Write(4)
	rb.Write(5) // head wraps to index 0 and 1 of the 4-slot backing array

	remaining := make([]float32, 4)
	n := rb.ReadInto(remaining)
	if n != 4 {
		t.Fatalf("ReadInto after wraparound = %d, want 4", n)
	}
	want := []float32{2, 3, 4, 5}
	for i := range want {
		if remaining[i] != want[i] {
			t.Fatalf("remaining[%d] = %v, want %v", i, remaining[i], want[i])
		}
	}
}
