package types

import "github.com/m-mizutani/goerr/v2"

// ItemID identifies a catalog entity (article, product, movie) in the
// remote relevance service.
type ItemID string

// Validate checks if the ItemID is valid
func (i ItemID) Validate() error {
	if i == "" {
		return goerr.New("item ID cannot be empty")
	}
	return nil
}

// String returns the string representation of ItemID
func (i ItemID) String() string {
	return string(i)
}
