package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/shaped-ai/relay/pkg/utils/logging"
)

// Handle logs the error with a message and returns it for the caller to
// map onto its own surface. All 5xx-class failures must pass through
// here so stack traces and goerr values reach the logs.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error(msg, "error", err.Error())
	}

	return err
}

// HandleHTTP logs the error and writes the normalized error envelope.
// The message written to the client is the error's own message; remote
// service response bodies must not be passed through here.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int) {
	if err == nil {
		return
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error("HTTP error",
			"status", statusCode,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error("HTTP error",
			"status", statusCode,
			"error", err.Error(),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	envelope := map[string]any{"ok": false, "error": err.Error()}
	if encodeErr := json.NewEncoder(w).Encode(envelope); encodeErr != nil {
		logger.Error("failed to write error envelope", "error", encodeErr.Error())
	}
}
