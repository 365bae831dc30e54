package shaped

import "github.com/shaped-ai/relay/pkg/domain/model"

// QueryRequest is the structured query submitted to the model query
// endpoint. The query spec describes retrieval legs and the entity the
// results are drawn from; free parameters are bound via Parameters.
type QueryRequest struct {
	ReturnExplanation bool              `json:"return_explanation,omitempty"`
	Query             QuerySpec         `json:"query"`
	Parameters        map[string]string `json:"parameters,omitempty"`
}

// QuerySpec is a rank query over one or more retrieval legs
type QuerySpec struct {
	Type     string         `json:"type"`
	Retrieve []RetrievalLeg `json:"retrieve"`
	From     string         `json:"from"`
}

// RetrievalLeg is a single retrieval strategy feeding the rank query
type RetrievalLeg struct {
	Type           string          `json:"type"`
	Mode           *TextSearchMode `json:"mode,omitempty"`
	InputTextQuery string          `json:"input_text_query,omitempty"`
	Limit          int             `json:"limit,omitempty"`
}

// TextSearchMode selects lexical or vector text search
type TextSearchMode struct {
	Type             string `json:"type"`
	TextEmbeddingRef string `json:"text_embedding_ref,omitempty"`
}

// QueryResponse is the typed result envelope of the query endpoint
type QueryResponse struct {
	Results     model.Results `json:"results"`
	EntityType  string        `json:"entity_type,omitempty"`
	Explanation *Explanation  `json:"explanation,omitempty"`
}

// Explanation carries query diagnostics when return_explanation is set
type Explanation struct {
	QueryName            string            `json:"query_name,omitempty"`
	QueryType            string            `json:"query_type,omitempty"`
	Parameters           map[string]string `json:"parameters,omitempty"`
	TotalExecutionTimeMs float64           `json:"total_execution_time_ms,omitempty"`
	FinalResultCount     int               `json:"final_result_count,omitempty"`
	LimitApplied         int               `json:"limit_applied,omitempty"`
}

// RankTextQuery builds the hybrid text search used by the search
// pipeline: a lexical leg plus, when embeddingRef is set, a vector leg
// over the same input text. The query text is bound as "$parameter.query".
func RankTextQuery(query, embeddingRef string, limit int) *QueryRequest {
	legs := []RetrievalLeg{
		{
			Type:           "text_search",
			Mode:           &TextSearchMode{Type: "lexical"},
			InputTextQuery: "$parameter.query",
			Limit:          limit,
		},
	}
	if embeddingRef != "" {
		legs = append(legs, RetrievalLeg{
			Type: "text_search",
			Mode: &TextSearchMode{
				Type:             "vector",
				TextEmbeddingRef: embeddingRef,
			},
			InputTextQuery: "$parameter.query",
			Limit:          limit,
		})
	}

	return &QueryRequest{
		ReturnExplanation: true,
		Query: QuerySpec{
			Type:     "rank",
			Retrieve: legs,
			From:     "item",
		},
		Parameters: map[string]string{"query": query},
	}
}
