package bus

import "testing"

func TestRequestPending(t *testing.T) {
	var r Request
	if r.Pending() {
		t.Fatalf("zero-value request reported pending")
	}
	r.Length = 4
	if !r.Pending() {
		t.Fatalf("request with nonzero length reported not pending")
	}
}

func TestRequestChunk(t *testing.T) {
	r := Request{From: 0x1000, To: 0x2000, Length: 20000}
	from, to, n, rest := r.Chunk(8192)
	if from != 0x1000 || to != 0x2000 || n != 8192 {
		t.Fatalf("unexpected first chunk: from=%#x to=%#x n=%d", from, to, n)
	}
	if rest.From != 0x1000+8192 || rest.To != 0x2000+8192 || rest.Length != 20000-8192 {
		t.Fatalf("unexpected remainder: %+v", rest)
	}

	from, to, n, rest = rest.Chunk(8192)
	if n != 8192 {
		t.Fatalf("expected second chunk of 8192 bytes, got %d", n)
	}

	from, to, n, rest = rest.Chunk(8192)
	if n != 20000-2*8192 {
		t.Fatalf("expected final chunk of %d bytes, got %d", 20000-2*8192, n)
	}
	if rest.Pending() {
		t.Fatalf("expected no remainder after final chunk, got %+v", rest)
	}
	_ = from
	_ = to
}

func TestRequestChunkEmpty(t *testing.T) {
	var r Request
	_, _, n, rest := r.Chunk(8192)
	if n != 0 {
		t.Fatalf("expected 0-length chunk from empty request, got %d", n)
	}
	if rest.Pending() {
		t.Fatalf("expected empty remainder, got %+v", rest)
	}
}
