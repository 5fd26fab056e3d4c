// ABOUTME: Resolves the three configured databases to their data source ids
// ABOUTME: Data sources are what Notion queries and page parents refer to
package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/JoaoVitorDomingos/automacao-rotina/internal/config"
	"github.com/JoaoVitorDomingos/automacao-rotina/internal/notion"
)

// ErrNoDataSource indicates a database that exposes no data source.
var ErrNoDataSource = errors.New("database has no data source")

// Workspace is the part of the Notion API the workflow drives.
// *notion.Client satisfies it.
type Workspace interface {
	RetrieveDatabase(ctx context.Context, databaseID string) (*notion.Database, error)
	QueryDataSource(ctx context.Context, dataSourceID string, filter *notion.Filter) ([]notion.Page, error)
	CreatePage(ctx context.Context, req notion.CreatePageRequest) (*notion.Page, error)
	UpdatePage(ctx context.Context, pageID string, properties map[string]notion.Property) (*notion.Page, error)
}

// DataSources holds the resolved ids.
type DataSources struct {
	Activities string
	Routine    string
	Analysis   string
}

// IDs returns the ids in fixed order: activities, routine, analysis.
func (d DataSources) IDs() [3]string {
	return [3]string{d.Activities, d.Routine, d.Analysis}
}

// ResolveDataSources retrieves each database and takes its first data source.
// The first failure aborts.
func ResolveDataSources(ctx context.Context, ws Workspace, dbs config.Databases) (DataSources, error) {
	var out DataSources

	targets := []struct {
		name string
		id   string
		dst  *string
	}{
		{"activities", dbs.Activities, &out.Activities},
		{"routine", dbs.Routine, &out.Routine},
		{"analysis", dbs.Analysis, &out.Analysis},
	}

	for _, target := range targets {
		db, err := ws.RetrieveDatabase(ctx, target.id)
		if err != nil {
			return DataSources{}, fmt.Errorf("resolving %s database: %w", target.name, err)
		}
		if len(db.DataSources) == 0 || db.DataSources[0].ID == "" {
			return DataSources{}, fmt.Errorf("resolving %s database %s: %w", target.name, target.id, ErrNoDataSource)
		}
		*target.dst = db.DataSources[0].ID
	}
	return out, nil
}
