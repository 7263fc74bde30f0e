package services

import "strings"

// Splitter breaks text into fixed-size overlapping windows. Size and
// overlap are configuration constants, not derived from content.
type Splitter struct {
	chunkSize int
	overlap   int
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}
}

// Split windows over the text rune by rune. Each chunk after the first
// starts overlap runes before the previous chunk ended, so dropping the
// first overlap runes of every chunk but the first reconstructs the
// input exactly.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= s.chunkSize {
		return []string{text}
	}

	step := s.chunkSize - s.overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + s.chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// Overlap returns the configured overlap in runes.
func (s *Splitter) Overlap() int {
	return s.overlap
}
