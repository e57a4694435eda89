package models

// BiometricProfile holds one user's face encoding as an opaque blob
// (little-endian float64 vector, dimension fixed by the extractor).
// Re-enrollment overwrites the previous profile.
type BiometricProfile struct {
	UserID   string
	Encoding []byte
}
