// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Error kinds for the structuring pipeline. Callers match them with
// errors.Is; the concrete cause is carried in the wrapping message.
var (
	// ErrValidation marks input rejected before extraction, such as empty
	// entry text or a malformed expiry date.
	ErrValidation = errors.New("invalid input")

	// ErrProvider marks a failed remote extraction. The service absorbs
	// this kind via the fallback parser; it never reaches the end user as
	// a hard failure.
	ErrProvider = errors.New("extraction provider failure")

	// ErrPersistence marks a file read or write failure. The operation
	// reports it to the caller; in-memory state may diverge from disk.
	ErrPersistence = errors.New("persistence failure")
)
