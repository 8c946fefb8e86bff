package models

import "errors"

// Error taxonomy shared by the services and controllers. Controllers map
// these onto HTTP statuses; anything else is a store failure and surfaces
// as a generic 500.
var (
	// ErrValidation covers missing or malformed required input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means the referenced issue, token, or record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEvidenceRequired gates Resolved/Closed transitions: municipal work
	// must be attested with a photo and GPS coordinates.
	ErrEvidenceRequired = errors.New("closure requires a photo and GPS (lat/lon)")

	// ErrPartialWrite means the status write landed but the ledger append
	// failed, leaving the issue and its timeline inconsistent. Only possible
	// on deployments where transactions are unavailable.
	ErrPartialWrite = errors.New("status updated but audit event was not recorded")
)
