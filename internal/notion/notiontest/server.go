// ABOUTME: HTTP front for the in-memory workspace
// ABOUTME: Serves the database, query and page endpoints for end-to-end tests
package notiontest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/JoaoVitorDomingos/automacao-rotina/internal/notion"
)

// NewServer starts an httptest server backed by ws. Requests without a
// bearer token are rejected with 401.
func NewServer(ws *Workspace) *httptest.Server {
	return httptest.NewServer(Handler(ws))
}

// Handler routes the Notion endpoints used by the client to ws.
func Handler(ws *Workspace) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/databases/{id}", func(w http.ResponseWriter, r *http.Request) {
		db, err := ws.RetrieveDatabase(r.Context(), r.PathValue("id"))
		respond(w, db, err)
	})

	mux.HandleFunc("POST /v1/data_sources/{id}/query", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Filter *notion.Filter `json:"filter"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, badRequest(err))
			return
		}
		pages, err := ws.QueryDataSource(r.Context(), r.PathValue("id"), req.Filter)
		if pages == nil {
			pages = []notion.Page{}
		}
		respond(w, map[string]any{
			"object":      "list",
			"results":     pages,
			"has_more":    false,
			"next_cursor": nil,
		}, err)
	})

	mux.HandleFunc("POST /v1/pages", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Parent     notion.Parent                         `json:"parent"`
			Properties map[string]map[string]json.RawMessage `json:"properties"`
			Icon       *notion.Icon                          `json:"icon"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, badRequest(err))
			return
		}
		props, err := decodeProperties(req.Properties)
		if err != nil {
			writeError(w, badRequest(err))
			return
		}
		page, err := ws.CreatePage(r.Context(), notion.CreatePageRequest{
			Parent:     req.Parent,
			Properties: props,
			Icon:       req.Icon,
		})
		respond(w, page, err)
	})

	mux.HandleFunc("PATCH /v1/pages/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Properties map[string]map[string]json.RawMessage `json:"properties"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, badRequest(err))
			return
		}
		props, err := decodeProperties(req.Properties)
		if err != nil {
			writeError(w, badRequest(err))
			return
		}
		page, err := ws.UpdatePage(r.Context(), r.PathValue("id"), props)
		respond(w, page, err)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(r.Header.Get("Authorization")) <= len("Bearer ") {
			writeError(w, &notion.APIError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "API token is invalid."})
			return
		}
		mux.ServeHTTP(w, r)
	})
}

// decodeProperties reads the write shape {"<type>": value} back into
// Property values.
func decodeProperties(raw map[string]map[string]json.RawMessage) (map[string]notion.Property, error) {
	props := make(map[string]notion.Property, len(raw))
	for name, obj := range raw {
		if len(obj) != 1 {
			return nil, fmt.Errorf("property %q: want exactly one value, got %d", name, len(obj))
		}
		for typ, value := range obj {
			p := notion.Property{Type: typ}
			var target any
			switch typ {
			case notion.TypeTitle:
				target = &p.Title
			case notion.TypeRichText:
				target = &p.RichText
			case notion.TypeCheckbox:
				target = &p.Checkbox
			case notion.TypeDate:
				target = &p.Date
			case notion.TypeMultiSelect:
				target = &p.MultiSelect
			case notion.TypeRelation:
				target = &p.Relation
			default:
				return nil, fmt.Errorf("property %q: unsupported type %q", name, typ)
			}
			if err := json.Unmarshal(value, target); err != nil {
				return nil, fmt.Errorf("property %q: %w", name, err)
			}
			props[name] = p
		}
	}
	return props, nil
}

func badRequest(err error) error {
	return &notion.APIError{Status: http.StatusBadRequest, Code: "validation_error", Message: err.Error()}
}

func respond(w http.ResponseWriter, body any, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	apiErr := &notion.APIError{Status: http.StatusInternalServerError, Code: "internal_server_error", Message: err.Error()}
	var target *notion.APIError
	if errors.As(err, &target) {
		apiErr = target
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"object":  "error",
		"status":  apiErr.Status,
		"code":    apiErr.Code,
		"message": apiErr.Message,
	})
}
