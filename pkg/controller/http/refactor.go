package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/shaped-ai/relay/pkg/usecase"
	"github.com/shaped-ai/relay/pkg/utils/errutil"
	"github.com/shaped-ai/relay/pkg/utils/logging"
	"github.com/shaped-ai/relay/pkg/utils/safe"
)

type refactorRequest struct {
	Code   string `json:"code"`
	Stream bool   `json:"stream,omitempty"`
}

type refactorResponse struct {
	RefactoredCode string `json:"refactored_code"`
}

// handleRefactor transforms Elastic DSL into Shaped configuration.
// With "stream": true the response is a server-sent event stream of
// chunks followed by a final done event.
func (s *Server) handleRefactor(w http.ResponseWriter, r *http.Request) {
	var body refactorRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	if body.Code == "" {
		errutil.HandleHTTP(r.Context(), w, usecase.ErrMissingCode, http.StatusBadRequest)
		return
	}

	if body.Stream {
		s.refactorStream(w, r, body.Code)
		return
	}

	code, err := s.uc.Refactor.Refactor(r.Context(), body.Code)
	if err != nil {
		_ = errutil.Handle(r.Context(), err, "refactor failed")
		errutil.HandleHTTP(r.Context(), w, errors.New("failed to refactor code"), http.StatusInternalServerError)
		return
	}

	respondData(w, http.StatusOK, refactorResponse{RefactoredCode: code})
}

func (s *Server) refactorStream(w http.ResponseWriter, r *http.Request, code string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		errutil.HandleHTTP(r.Context(), w, errors.New("streaming unsupported"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	emit := func(event any) error {
		data, err := json.Marshal(event)
		if err != nil {
			return goerr.Wrap(err, "failed to encode stream event")
		}
		if _, err := w.Write([]byte("data: ")); err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		if _, err := w.Write([]byte("\n\n")); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	final, err := s.uc.Refactor.RefactorStream(r.Context(), code, func(chunk string) error {
		return emit(map[string]string{"chunk": chunk})
	})
	if err != nil {
		logging.From(r.Context()).Error("refactor stream failed", "error", err.Error())
		// The stream is already open: deliver the failure as an event
		if emitErr := emit(map[string]string{"error": "failed to refactor code"}); emitErr != nil {
			safe.Write(r.Context(), w, []byte("\n"))
		}
		return
	}

	if err := emit(map[string]any{"done": true, "refactoredCode": final}); err != nil {
		logging.From(r.Context()).Warn("client left before final refactor event", "error", err.Error())
	}
}
