package biometric

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeVector serializes a face encoding as little-endian float64 bytes for
// blob storage.
func EncodeVector(v []float64) []byte {
	b := make([]byte, 8*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint64(b[i*8:], math.Float64bits(f))
	}
	return b
}

// DecodeVector is the inverse of EncodeVector. A blob whose length is not a
// multiple of 8 is rejected.
func DecodeVector(b []byte) ([]float64, error) {
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("invalid encoding blob length: %d", len(b))
	}
	v := make([]float64, len(b)/8)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return v, nil
}

// EuclideanDistance returns the L2 distance between two encodings of equal
// dimension.
func EuclideanDistance(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("dimension mismatch: %d vs %d", len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}
