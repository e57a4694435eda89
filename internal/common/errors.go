// Package common defines shared sentinel errors and small helpers used across
// the vault components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Input validation (missing/empty required field).
	ErrorValidation = errors.New("validation error")

	// Ciphertext failed authentication or could not be decrypted.
	// Indicates key mismatch or tampering and is always surfaced.
	ErrorDecryption = errors.New("decryption error")

	// Biometric errors.
	ErrorNoFaceDetected = errors.New("no face detected")
	ErrorExtraction     = errors.New("feature extraction failed")
	ErrorNoMatch        = errors.New("no biometric match")

	// Generic/internal flow control.
	ErrorInternal = errors.New("internal error")
)
