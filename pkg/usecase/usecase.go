package usecase

import (
	"github.com/m-mizutani/gollem"
	"github.com/shaped-ai/relay/pkg/domain/model"
	"github.com/shaped-ai/relay/pkg/service/shaped"
)

type UseCases struct {
	shaped  shaped.Service
	catalog *model.Catalog

	Interaction *InteractionUseCase
	Search      *SearchUseCase
	Retrieve    *RetrieveUseCase
	Similar     *SimilarUseCase
	Track       *TrackUseCase
	Refactor    *RefactorUseCase
}

type Option func(*UseCases)

// WithLLM enables the refactor use case with the given LLM client
func WithLLM(llm gollem.LLMClient) Option {
	return func(uc *UseCases) {
		uc.Refactor = NewRefactorUseCase(llm)
	}
}

func New(svc shaped.Service, catalog *model.Catalog, opts ...Option) *UseCases {
	uc := &UseCases{
		shaped:  svc,
		catalog: catalog,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Interaction = NewInteractionUseCase()
	uc.Search = NewSearchUseCase(svc, catalog)
	uc.Retrieve = NewRetrieveUseCase(svc, catalog)
	uc.Similar = NewSimilarUseCase(svc, catalog)
	uc.Track = NewTrackUseCase(svc, catalog)

	return uc
}

// Catalog exposes the configured app catalog
func (uc *UseCases) Catalog() *model.Catalog {
	return uc.catalog
}
