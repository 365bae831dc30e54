package shaped_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/shaped-ai/relay/pkg/domain/model"
	"github.com/shaped-ai/relay/pkg/service/shaped"
)

func TestNew(t *testing.T) {
	_, err := shaped.New("")
	gt.Error(t, err)

	svc, err := shaped.New("sk-test")
	gt.NoError(t, err).Required()
	gt.Value(t, svc).NotNil()
}

func TestQuery(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"id":"movie-1","score":0.95},{"id":"movie-2","score":0.8}]}`))
	}))
	defer srv.Close()

	svc, err := shaped.New("sk-read", shaped.WithBaseURL(srv.URL))
	gt.NoError(t, err).Required()

	resp, err := svc.Query(context.Background(), "movie-ranker", shaped.RankTextQuery("matrix", "", 100))
	gt.NoError(t, err).Required()

	gt.Value(t, gotPath).Equal("/models/movie-ranker/query")
	gt.Value(t, gotKey).Equal("sk-read")

	// The query text is bound as a parameter, not inlined in the legs
	params := gotBody["parameters"].(map[string]any)
	gt.Value(t, params["query"]).Equal("matrix")

	gt.Array(t, resp.Results).Length(2)
	gt.Value(t, resp.Results[0].ID).Equal("movie-1")
}

func TestQueryError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	svc, err := shaped.New("sk-read", shaped.WithBaseURL(srv.URL))
	gt.NoError(t, err).Required()

	_, err = svc.Query(context.Background(), "missing-model", shaped.RankTextQuery("matrix", "", 10))
	gt.Error(t, err)
}

func TestRetrieve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.URL.Path).Equal("/models/movie-ranker/retrieve")

		var payload map[string]any
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gt.Value(t, payload["user_id"]).Equal("user-1")

		_, _ = w.Write([]byte(`{"ids":["movie-1"],"scores":[0.9]}`))
	}))
	defer srv.Close()

	svc, err := shaped.New("sk-read", shaped.WithBaseURL(srv.URL))
	gt.NoError(t, err).Required()

	raw, err := svc.Retrieve(context.Background(), "movie-ranker", map[string]any{"user_id": "user-1"})
	gt.NoError(t, err).Required()
	gt.String(t, string(raw)).Contains("movie-1")
}

func TestSimilarItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.URL.Path).Equal("/models/movie-ranker/similar_items")

		var payload map[string]any
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gt.Value(t, payload["item_id"]).Equal("movie-1")
		gt.Value(t, payload["return_metadata"]).Equal(true)

		_, _ = w.Write([]byte(`{"ids":["movie-2","movie-3"]}`))
	}))
	defer srv.Close()

	svc, err := shaped.New("sk-read", shaped.WithBaseURL(srv.URL))
	gt.NoError(t, err).Required()

	raw, err := svc.SimilarItems(context.Background(), "movie-ranker", "movie-1")
	gt.NoError(t, err).Required()
	gt.String(t, string(raw)).Contains("movie-2")
}

func TestInsertEvents(t *testing.T) {
	t.Run("uses the write key", func(t *testing.T) {
		var gotKey string
		var gotBody map[string]any

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gt.Value(t, r.URL.Path).Equal("/datasets/movie-events/insert")
			gotKey = r.Header.Get("x-api-key")
			gt.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		svc, err := shaped.New("sk-read",
			shaped.WithBaseURL(srv.URL),
			shaped.WithWriteAPIKey("sk-write"),
		)
		gt.NoError(t, err).Required()

		event := model.NewTrackEvent("click", "movie-1", "user-1")
		gt.NoError(t, svc.InsertEvents(context.Background(), "movie-events", []model.TrackEvent{event}))

		gt.Value(t, gotKey).Equal("sk-write")
		gt.Array(t, gotBody["data"].([]any)).Length(1)
	})

	t.Run("falls back to the read key", func(t *testing.T) {
		var gotKey string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.Header.Get("x-api-key")
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		svc, err := shaped.New("sk-read", shaped.WithBaseURL(srv.URL))
		gt.NoError(t, err).Required()

		event := model.NewTrackEvent("click", "movie-1", "user-1")
		gt.NoError(t, svc.InsertEvents(context.Background(), "movie-events", []model.TrackEvent{event}))
		gt.Value(t, gotKey).Equal("sk-read")
	})

	t.Run("no events means no request", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected request")
		}))
		defer srv.Close()

		svc, err := shaped.New("sk-read", shaped.WithBaseURL(srv.URL))
		gt.NoError(t, err).Required()
		gt.NoError(t, svc.InsertEvents(context.Background(), "movie-events", nil))
	})
}

func TestRankTextQuery(t *testing.T) {
	t.Run("lexical only without an embedding ref", func(t *testing.T) {
		req := shaped.RankTextQuery("matrix", "", 100)

		gt.Value(t, req.Query.Type).Equal("rank")
		gt.Value(t, req.Query.From).Equal("item")
		gt.Array(t, req.Query.Retrieve).Length(1).Required()
		gt.Value(t, req.Query.Retrieve[0].Mode.Type).Equal("lexical")
		gt.Value(t, req.Query.Retrieve[0].InputTextQuery).Equal("$parameter.query")
		gt.Value(t, req.Query.Retrieve[0].Limit).Equal(100)
	})

	t.Run("adds a vector leg with an embedding ref", func(t *testing.T) {
		req := shaped.RankTextQuery("matrix", "title-embedding", 100)

		gt.Array(t, req.Query.Retrieve).Length(2).Required()
		gt.Value(t, req.Query.Retrieve[1].Mode.Type).Equal("vector")
		gt.Value(t, req.Query.Retrieve[1].Mode.TextEmbeddingRef).Equal("title-embedding")
	})
}
