package storage

import (
	"encoding/base64"
	"strings"
)

// DefaultEncodeChunkSize is a multiple of 3 so chunk boundaries never
// introduce padding in the middle of the output.
const DefaultEncodeChunkSize = 3 * 8192

// EncodeBase64Chunked encodes data in fixed-size slices and concatenates the
// results. The output is identical to encoding the whole buffer at once.
func EncodeBase64Chunked(data []byte, chunkSize int) string {
	if chunkSize <= 0 {
		chunkSize = DefaultEncodeChunkSize
	}
	// round down to a multiple of 3, keeping at least one group
	chunkSize -= chunkSize % 3
	if chunkSize == 0 {
		chunkSize = 3
	}

	var sb strings.Builder
	sb.Grow(base64.StdEncoding.EncodedLen(len(data)))

	buf := make([]byte, base64.StdEncoding.EncodedLen(chunkSize))
	for start := 0; start < len(data); start += chunkSize {
		end := start + chunkSize
		if end > len(data) {
			end = len(data)
		}
		n := base64.StdEncoding.EncodedLen(end - start)
		base64.StdEncoding.Encode(buf[:n], data[start:end])
		sb.Write(buf[:n])
	}

	return sb.String()
}
