package extract

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxChunkSize is the chunk budget in characters when none is given
const DefaultMaxChunkSize = 1000

// Separator joins elements inside a chunk
const Separator = "\n"

// Chunk is an ordered group of element markup strings sent in one model request
type Chunk []string

// String renders the chunk as the newline-joined text handed to the model
func (c Chunk) String() string {
	return strings.Join(c, Separator)
}

// Size is the number of characters the chunk counts against its budget.
// Separators are not counted.
func (c Chunk) Size() int {
	n := 0
	for _, el := range c {
		n += utf8.RuneCountInString(el)
	}
	return n
}

// ChunkElements greedily packs elements into chunks of at most maxSize characters.
// An element is never split: one larger than maxSize gets a chunk of its own.
// Every element lands in exactly one chunk, in input order.
func ChunkElements(elements []string, maxSize int) []Chunk {
	if maxSize <= 0 {
		maxSize = DefaultMaxChunkSize
	}

	var chunks []Chunk
	var current Chunk
	currentSize := 0

	for _, el := range elements {
		size := utf8.RuneCountInString(el)
		if currentSize+size > maxSize && len(current) > 0 {
			chunks = append(chunks, current)
			current = nil
			currentSize = 0
		}
		current = append(current, el)
		currentSize += size
	}

	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}

// Join flattens elements into the newline-joined form used for snapshots
func Join(elements []string) string {
	return strings.Join(elements, Separator)
}
