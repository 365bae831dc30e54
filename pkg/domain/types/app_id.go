package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// AppID identifies a catalog application (e.g. "movies", "documents")
// configured in the catalog file. Each app maps to one Shaped model.
type AppID string

var idPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Validate checks if the AppID is valid
func (a AppID) Validate() error {
	if a == "" {
		return goerr.New("app ID cannot be empty")
	}
	if !idPattern.MatchString(string(a)) {
		return goerr.New("app ID must be lowercase alphanumeric with hyphens", goerr.V("id", a))
	}
	return nil
}

// String returns the string representation of AppID
func (a AppID) String() string {
	return string(a)
}
