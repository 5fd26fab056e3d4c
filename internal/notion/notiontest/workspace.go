// ABOUTME: In-memory Notion workspace for tests
// ABOUTME: Evaluates query filters and records every create and update
package notiontest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/JoaoVitorDomingos/automacao-rotina/internal/notion"
)

// Workspace is a fake with the same method set as *notion.Client.
type Workspace struct {
	mu         sync.Mutex
	databases  map[string]notion.Database
	pages      map[string][]notion.Page // data source id -> pages, insertion order
	parentOf   map[string]string        // page id -> data source id
	retrievals int

	Creates []notion.CreatePageRequest
	Updates []Update
	Queries int
	FailOn  map[string]error // operation name -> error to return
}

// Update records one UpdatePage call.
type Update struct {
	PageID     string
	Properties map[string]notion.Property
}

// NewWorkspace creates an empty workspace.
func NewWorkspace() *Workspace {
	return &Workspace{
		databases: make(map[string]notion.Database),
		pages:     make(map[string][]notion.Page),
		parentOf:  make(map[string]string),
		FailOn:    make(map[string]error),
	}
}

// AddDatabase registers a database with one data source and returns the
// data source id.
func (w *Workspace) AddDatabase(databaseID string) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	dsID := uuid.NewString()
	w.databases[databaseID] = notion.Database{
		ID:          databaseID,
		DataSources: []notion.DataSourceRef{{ID: dsID}},
	}
	return dsID
}

// AddEmptyDatabase registers a database without data sources.
func (w *Workspace) AddEmptyDatabase(databaseID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.databases[databaseID] = notion.Database{ID: databaseID}
}

// Seed stores a page directly in a data source, assigning an id when empty.
func (w *Workspace) Seed(dataSourceID string, page notion.Page) notion.Page {
	w.mu.Lock()
	defer w.mu.Unlock()

	if page.ID == "" {
		page.ID = uuid.NewString()
	}
	w.pages[dataSourceID] = append(w.pages[dataSourceID], page)
	w.parentOf[page.ID] = dataSourceID
	return page
}

// Pages returns a copy of the pages stored in a data source.
func (w *Workspace) Pages(dataSourceID string) []notion.Page {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]notion.Page(nil), w.pages[dataSourceID]...)
}

// Page looks a page up by id.
func (w *Workspace) Page(pageID string) (notion.Page, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.findLocked(pageID)
}

// Writes returns the number of recorded creates and updates. Use it instead of
// the exported slices when the workspace is served over HTTP.
func (w *Workspace) Writes() (creates, updates int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.Creates), len(w.Updates)
}

// Retrievals returns the number of RetrieveDatabase calls.
func (w *Workspace) Retrievals() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.retrievals
}

func (w *Workspace) RetrieveDatabase(ctx context.Context, databaseID string) (*notion.Database, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.retrievals++
	if err := w.FailOn["retrieve_database"]; err != nil {
		return nil, err
	}
	db, ok := w.databases[databaseID]
	if !ok {
		return nil, &notion.APIError{Status: 404, Code: "object_not_found", Message: "database " + databaseID}
	}
	return &db, nil
}

func (w *Workspace) QueryDataSource(ctx context.Context, dataSourceID string, filter *notion.Filter) ([]notion.Page, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.Queries++
	if err := w.FailOn["query_data_source"]; err != nil {
		return nil, err
	}
	var out []notion.Page
	for _, p := range w.pages[dataSourceID] {
		if filter == nil || Match(*filter, p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (w *Workspace) CreatePage(ctx context.Context, req notion.CreatePageRequest) (*notion.Page, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.FailOn["create_page"]; err != nil {
		return nil, err
	}
	if req.Parent.DataSourceID == "" {
		return nil, fmt.Errorf("create page: missing parent data source")
	}
	w.Creates = append(w.Creates, req)

	page := notion.Page{
		ID:         uuid.NewString(),
		Properties: make(map[string]notion.Property, len(req.Properties)),
		Icon:       req.Icon,
	}
	for name, prop := range req.Properties {
		page.Properties[name] = readBack(prop)
	}
	w.pages[req.Parent.DataSourceID] = append(w.pages[req.Parent.DataSourceID], page)
	w.parentOf[page.ID] = req.Parent.DataSourceID
	return &page, nil
}

func (w *Workspace) UpdatePage(ctx context.Context, pageID string, properties map[string]notion.Property) (*notion.Page, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.FailOn["update_page"]; err != nil {
		return nil, err
	}
	ds, ok := w.parentOf[pageID]
	if !ok {
		return nil, &notion.APIError{Status: 404, Code: "object_not_found", Message: "page " + pageID}
	}
	w.Updates = append(w.Updates, Update{PageID: pageID, Properties: properties})

	pages := w.pages[ds]
	for i := range pages {
		if pages[i].ID != pageID {
			continue
		}
		if pages[i].Properties == nil {
			pages[i].Properties = make(map[string]notion.Property)
		}
		for name, prop := range properties {
			pages[i].Properties[name] = readBack(prop)
		}
		page := pages[i]
		return &page, nil
	}
	return nil, &notion.APIError{Status: 404, Code: "object_not_found", Message: "page " + pageID}
}

func (w *Workspace) findLocked(pageID string) (notion.Page, bool) {
	ds, ok := w.parentOf[pageID]
	if !ok {
		return notion.Page{}, false
	}
	for _, p := range w.pages[ds] {
		if p.ID == pageID {
			return p, true
		}
	}
	return notion.Page{}, false
}

// readBack fills plain_text the way the API does on read.
func readBack(prop notion.Property) notion.Property {
	prop.Title = withPlainText(prop.Title)
	prop.RichText = withPlainText(prop.RichText)
	return prop
}

func withPlainText(runs []notion.RichText) []notion.RichText {
	if runs == nil {
		return nil
	}
	out := make([]notion.RichText, len(runs))
	for i, r := range runs {
		if r.PlainText == "" && r.Text != nil {
			r.PlainText = r.Text.Content
		}
		out[i] = r
	}
	return out
}

// Match evaluates a filter against a page.
func Match(f notion.Filter, p notion.Page) bool {
	if len(f.And) > 0 {
		for _, sub := range f.And {
			if !Match(sub, p) {
				return false
			}
		}
		return true
	}

	prop, ok := p.Properties[f.Property]
	switch {
	case f.Checkbox != nil:
		return ok && prop.Checkbox == f.Checkbox.Equals
	case f.Date != nil:
		return ok && prop.Date != nil && sameDay(prop.Date.Start, f.Date.Equals)
	case f.MultiSelect != nil:
		if !ok {
			return false
		}
		for _, opt := range prop.MultiSelect {
			if opt.Name == f.MultiSelect.Contains {
				return true
			}
		}
		return false
	case f.Relation != nil:
		if !ok {
			return false
		}
		for _, rel := range prop.Relation {
			if rel.ID == f.Relation.Contains {
				return true
			}
		}
		return false
	}
	return true
}

func sameDay(a, b string) bool {
	if len(a) < 10 || len(b) < 10 {
		return a == b
	}
	return strings.EqualFold(a[:10], b[:10])
}
