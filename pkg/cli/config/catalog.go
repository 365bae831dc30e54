package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/shaped-ai/relay/pkg/domain/model"
	"github.com/shaped-ai/relay/pkg/domain/types"
)

// CatalogConfig represents the app catalog configuration file
type CatalogConfig struct {
	Apps []AppEntry `toml:"app"`
}

// AppEntry represents a single catalog app configuration
type AppEntry struct {
	ID            string `toml:"id"`
	Name          string `toml:"name"`
	Model         string `toml:"model"`
	EventsDataset string `toml:"events_dataset"`
	DedupeField   string `toml:"dedupe_field"`
	EmbeddingRef  string `toml:"embedding_ref"`
}

// Validate checks if the AppEntry is valid
func (a *AppEntry) Validate() error {
	id := types.AppID(a.ID)
	if err := id.Validate(); err != nil {
		return goerr.Wrap(err, "invalid app ID")
	}
	if a.Name == "" {
		return goerr.New("app name is required", goerr.V("id", a.ID))
	}
	if a.Model == "" {
		return goerr.New("app model is required", goerr.V("id", a.ID))
	}
	return nil
}

// Validate checks if the CatalogConfig is valid
func (c *CatalogConfig) Validate() error {
	if len(c.Apps) == 0 {
		return goerr.New("at least one [[app]] entry is required")
	}

	appIDs := make(map[string]bool)
	for _, app := range c.Apps {
		if err := app.Validate(); err != nil {
			return goerr.Wrap(err, "invalid app")
		}
		if appIDs[app.ID] {
			return goerr.New("duplicate app ID", goerr.V("id", app.ID))
		}
		appIDs[app.ID] = true
	}

	return nil
}

// LoadCatalog loads the app catalog from a TOML file
func LoadCatalog(path string) (*model.Catalog, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read catalog file", goerr.V("path", path))
	}

	var config CatalogConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML catalog", goerr.V("path", path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "catalog validation failed", goerr.V("path", path))
	}

	return config.ToCatalog()
}

// ToCatalog converts the configuration to a domain catalog
func (c *CatalogConfig) ToCatalog() (*model.Catalog, error) {
	apps := make([]*model.App, len(c.Apps))
	for i, entry := range c.Apps {
		apps[i] = &model.App{
			ID:            types.AppID(entry.ID),
			Name:          entry.Name,
			Model:         entry.Model,
			EventsDataset: entry.EventsDataset,
			DedupeField:   entry.DedupeField,
			EmbeddingRef:  entry.EmbeddingRef,
		}
	}
	return model.NewCatalog(apps)
}
