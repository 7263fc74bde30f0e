package services

import (
	"strings"
	"testing"
)

func TestSplit_ShortInputSingleChunk(t *testing.T) {
	s := NewSplitter(1000, 100)

	text := "The budget is $5.2 Billion."
	chunks := s.Split(text)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk for short input, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Fatalf("expected chunk to equal input, got %q", chunks[0])
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	s := NewSplitter(1000, 100)

	if chunks := s.Split(""); len(chunks) != 0 {
		t.Fatalf("expected 0 chunks for empty input, got %d", len(chunks))
	}
	if chunks := s.Split("   \n\t  "); len(chunks) != 0 {
		t.Fatalf("expected 0 chunks for whitespace input, got %d", len(chunks))
	}
}

func TestSplit_LosslessReconstruction(t *testing.T) {
	s := NewSplitter(1000, 100)

	text := strings.Repeat("abcdefghij", 250) // 2500 chars
	chunks := s.Split(text)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// Dropping the leading overlap of every chunk but the first must
	// rebuild the input exactly.
	rebuilt := chunks[0]
	for _, chunk := range chunks[1:] {
		runes := []rune(chunk)
		if len(runes) <= s.Overlap() {
			t.Fatalf("chunk shorter than overlap: %d runes", len(runes))
		}
		rebuilt += string(runes[s.Overlap():])
	}

	if rebuilt != text {
		t.Fatalf("reconstruction mismatch: got %d chars, want %d", len(rebuilt), len(text))
	}
}

func TestSplit_ChunkBounds(t *testing.T) {
	s := NewSplitter(1000, 100)

	text := strings.Repeat("x", 3333)
	for i, chunk := range s.Split(text) {
		if n := len([]rune(chunk)); n > 1000 {
			t.Fatalf("chunk %d exceeds chunk size: %d runes", i, n)
		}
	}
}

func TestSplit_MultibyteRunes(t *testing.T) {
	s := NewSplitter(100, 10)

	text := strings.Repeat("héllo wörld ", 50)
	chunks := s.Split(text)

	rebuilt := chunks[0]
	for _, chunk := range chunks[1:] {
		rebuilt += string([]rune(chunk)[s.Overlap():])
	}
	if rebuilt != text {
		t.Fatal("multibyte reconstruction mismatch")
	}
}
