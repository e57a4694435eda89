package biometric

import "context"

// Extractor is the external face-detection collaborator. Given an image it
// returns zero or more fixed-dimension face encodings, in detector order.
// The matcher treats it as an opaque function and never constructs encodings
// itself.
type Extractor interface {
	Encodings(ctx context.Context, image []byte) ([][]float64, error)
}
