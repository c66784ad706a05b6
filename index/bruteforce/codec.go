package bruteforce

import (
	"encoding/binary"
	"errors"
	"math"
)

// Encode stores: dim(uint32), n(uint32), then for each item:
// idLen(uint32), id bytes, vec(float32[dim]).
func Encode(ids []string, vectors [][]float32) []byte {
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	size := 8
	for _, id := range ids {
		size += 4 + len(id) + 4*dim
	}
	out := make([]byte, 8, size)
	binary.LittleEndian.PutUint32(out[0:4], uint32(dim))
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(ids)))
	for i, id := range ids {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(id)))
		out = append(out, id...)
		for _, v := range vectors[i] {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
		}
	}
	return out
}

// Decode parses the layout written by Encode.
func Decode(data []byte) ([]string, [][]float32, error) {
	if len(data) < 8 {
		return nil, nil, errors.New("bruteforce: invalid data")
	}
	dim := int(binary.LittleEndian.Uint32(data[0:4]))
	n := int(binary.LittleEndian.Uint32(data[4:8]))
	off := 8
	ids := make([]string, 0, n)
	vecs := make([][]float32, 0, n)
	for i := 0; i < n; i++ {
		if off+4 > len(data) {
			return nil, nil, errors.New("bruteforce: truncated")
		}
		idLen := int(binary.LittleEndian.Uint32(data[off:]))
		off += 4
		if off+idLen > len(data) {
			return nil, nil, errors.New("bruteforce: truncated id")
		}
		ids = append(ids, string(data[off:off+idLen]))
		off += idLen
		if off+4*dim > len(data) {
			return nil, nil, errors.New("bruteforce: truncated vec")
		}
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		vecs = append(vecs, vec)
	}
	return ids, vecs, nil
}
