package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/shaped-ai/relay/pkg/domain/types"
)

// App describes one catalog application served by the relay. Each app
// is backed by one Shaped model and, optionally, one events dataset.
type App struct {
	ID            types.AppID
	Name          string
	Model         string
	EventsDataset string

	// DedupeField is the metadata field holding the natural key used to
	// collapse duplicate results (e.g. "article_id"). Empty means
	// results are deduplicated by result ID only.
	DedupeField string

	// EmbeddingRef names the text embedding used for vector retrieval.
	// Empty disables the vector leg of search queries.
	EmbeddingRef string
}

// Catalog is the set of configured apps. The first app is the default
// used when a request does not name one.
type Catalog struct {
	apps  map[types.AppID]*App
	order []types.AppID
}

// NewCatalog builds a catalog from the given apps
func NewCatalog(apps []*App) (*Catalog, error) {
	if len(apps) == 0 {
		return nil, goerr.New("catalog requires at least one app")
	}

	c := &Catalog{apps: make(map[types.AppID]*App, len(apps))}
	for _, app := range apps {
		if _, exists := c.apps[app.ID]; exists {
			return nil, goerr.New("duplicate app ID", goerr.V("id", app.ID))
		}
		c.apps[app.ID] = app
		c.order = append(c.order, app.ID)
	}
	return c, nil
}

// App resolves an app by ID. An empty ID resolves to the default app.
func (c *Catalog) App(id types.AppID) (*App, error) {
	if id == "" {
		return c.apps[c.order[0]], nil
	}
	app, ok := c.apps[id]
	if !ok {
		return nil, goerr.New("unknown app", goerr.V("id", id))
	}
	return app, nil
}

// Apps returns all apps in configuration order
func (c *Catalog) Apps() []*App {
	apps := make([]*App, len(c.order))
	for i, id := range c.order {
		apps[i] = c.apps[id]
	}
	return apps
}
