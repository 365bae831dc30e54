package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for the use case layer
var (
	// Input validation errors (mapped to 400 responses)
	ErrMissingItemID = goerr.New("item_id is missing")
	ErrMissingCode   = goerr.New("no code provided")

	// Feature availability errors
	ErrRefactorDisabled = goerr.New("refactor is not configured")
)
