package textsplitter

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Splitter cuts documents into overlapping chunks sized for embedding.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

// New builds a recursive character splitter. chunkSize is in characters;
// overlap carries trailing context into the next chunk.
func New(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 800
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 8
	}
	return &Splitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   []string{"\n\n", "\n", ". ", " "},
	}
}

// Split breaks text into chunks, preferring paragraph and sentence boundaries
// and falling back to word boundaries before cutting mid-word.
func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= s.chunkSize {
		return []string{text}
	}

	pieces := s.recurse(text, s.separators)

	// Merge adjacent pieces up to chunkSize, then re-append overlap.
	var chunks []string
	var cur strings.Builder
	for _, p := range pieces {
		if cur.Len() > 0 && cur.Len()+len(p)+1 > s.chunkSize {
			chunks = append(chunks, strings.TrimSpace(cur.String()))
			tail := overlapTail(cur.String(), s.chunkOverlap)
			cur.Reset()
			if tail != "" {
				cur.WriteString(tail)
				cur.WriteString(" ")
			}
		}
		if cur.Len() > 0 {
			cur.WriteString(" ")
		}
		cur.WriteString(p)
	}
	if strings.TrimSpace(cur.String()) != "" {
		chunks = append(chunks, strings.TrimSpace(cur.String()))
	}
	return chunks
}

func (s *Splitter) recurse(text string, seps []string) []string {
	if len(text) <= s.chunkSize {
		return []string{text}
	}
	if len(seps) == 0 {
		// Hard cut as the last resort.
		var out []string
		for len(text) > s.chunkSize {
			out = append(out, text[:s.chunkSize])
			text = text[s.chunkSize:]
		}
		if text != "" {
			out = append(out, text)
		}
		return out
	}

	parts := strings.Split(text, seps[0])
	var out []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if len(part) > s.chunkSize {
			out = append(out, s.recurse(part, seps[1:])...)
		} else {
			out = append(out, part)
		}
	}
	return out
}

func overlapTail(text string, overlap int) string {
	if overlap <= 0 || len(text) <= overlap {
		return ""
	}
	tail := text[len(text)-overlap:]
	// Start the overlap at a word boundary.
	if idx := strings.IndexByte(tail, ' '); idx >= 0 {
		tail = tail[idx+1:]
	}
	return strings.TrimSpace(tail)
}

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
)

// EstimateTokens counts tokens with the cl100k_base encoding, falling back to
// a bytes/4 estimate when the encoding is not available offline.
func EstimateTokens(text string) int {
	encOnce.Do(func() {
		e, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			enc = e
		}
	})
	if enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	n := len(text) / 4
	if n == 0 && text != "" {
		n = 1
	}
	return n
}
