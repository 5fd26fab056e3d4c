// ABOUTME: Notion object shapes used by the routine workflow
// ABOUTME: Pages, property values, rich text, icons and data source refs
package notion

import (
	"encoding/json"
	"fmt"
)

// Property types understood by this package.
const (
	TypeTitle       = "title"
	TypeRichText    = "rich_text"
	TypeCheckbox    = "checkbox"
	TypeDate        = "date"
	TypeMultiSelect = "multi_select"
	TypeRelation    = "relation"
)

// Database is the subset of a database object needed to reach its data sources.
type Database struct {
	ID          string          `json:"id"`
	DataSources []DataSourceRef `json:"data_sources"`
}

// DataSourceRef points at one data source of a database.
type DataSourceRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Page is a database row.
type Page struct {
	ID         string              `json:"id"`
	Properties map[string]Property `json:"properties"`
	Icon       *Icon               `json:"icon,omitempty"`
}

// Icon is an emoji page icon. Other icon types decode with an empty Emoji.
type Icon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji,omitempty"`
}

// Emoji builds an emoji icon.
func Emoji(e string) *Icon {
	return &Icon{Type: "emoji", Emoji: e}
}

// RichText is one text run.
type RichText struct {
	Type      string       `json:"type,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

// TextContent carries the content of a text run.
type TextContent struct {
	Content string `json:"content"`
}

// SelectOption is a select or multi-select option.
type SelectOption struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// DateValue is a date property value. Start is ISO 8601.
type DateValue struct {
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
}

// Relation references another page.
type Relation struct {
	ID string `json:"id"`
}

// Property is a property value. Only the field matching Type is meaningful.
type Property struct {
	ID          string         `json:"id,omitempty"`
	Type        string         `json:"type"`
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	Checkbox    bool           `json:"checkbox,omitempty"`
	Date        *DateValue     `json:"date,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	Relation    []Relation     `json:"relation,omitempty"`
}

// MarshalJSON writes the write-side shape {"<type>": value}. Empty lists are
// sent as [] so that clearing a rich text or relation is explicit.
func (p Property) MarshalJSON() ([]byte, error) {
	var value any
	switch p.Type {
	case TypeTitle:
		value = nonNil(p.Title)
	case TypeRichText:
		value = nonNil(p.RichText)
	case TypeCheckbox:
		value = p.Checkbox
	case TypeDate:
		value = p.Date
	case TypeMultiSelect:
		value = nonNil(p.MultiSelect)
	case TypeRelation:
		value = nonNil(p.Relation)
	default:
		return nil, fmt.Errorf("unsupported property type %q", p.Type)
	}
	return json.Marshal(map[string]any{p.Type: value})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Text builds a single text run.
func Text(content string) RichText {
	return RichText{Type: "text", Text: &TextContent{Content: content}}
}

// TitleValue builds a title property.
func TitleValue(content string) Property {
	return Property{Type: TypeTitle, Title: []RichText{Text(content)}}
}

// RichTextValue builds a rich text property. An empty content yields an empty
// rich text list.
func RichTextValue(content string) Property {
	if content == "" {
		return Property{Type: TypeRichText, RichText: []RichText{}}
	}
	return Property{Type: TypeRichText, RichText: []RichText{Text(content)}}
}

// CheckboxValue builds a checkbox property.
func CheckboxValue(checked bool) Property {
	return Property{Type: TypeCheckbox, Checkbox: checked}
}

// DateValueOf builds a date property starting at start.
func DateValueOf(start string) Property {
	return Property{Type: TypeDate, Date: &DateValue{Start: start}}
}

// RelationValue builds a relation property pointing at ids, in order.
func RelationValue(ids ...string) Property {
	rel := make([]Relation, 0, len(ids))
	for _, id := range ids {
		rel = append(rel, Relation{ID: id})
	}
	return Property{Type: TypeRelation, Relation: rel}
}

// FirstPlainText returns the plain text of the first run, or "".
func FirstPlainText(runs []RichText) string {
	if len(runs) == 0 {
		return ""
	}
	if runs[0].PlainText != "" {
		return runs[0].PlainText
	}
	if runs[0].Text != nil {
		return runs[0].Text.Content
	}
	return ""
}

// CreatePageRequest is the body of POST /v1/pages for a data source parent.
type CreatePageRequest struct {
	Parent     Parent              `json:"parent"`
	Properties map[string]Property `json:"properties"`
	Icon       *Icon               `json:"icon,omitempty"`
}

// Parent identifies the data source a page is created in.
type Parent struct {
	Type         string `json:"type,omitempty"`
	DataSourceID string `json:"data_source_id"`
}

// InDataSource builds a parent for the given data source.
func InDataSource(id string) Parent {
	return Parent{Type: "data_source_id", DataSourceID: id}
}

type updatePageRequest struct {
	Properties map[string]Property `json:"properties"`
}

type queryRequest struct {
	Filter      *Filter `json:"filter,omitempty"`
	StartCursor string  `json:"start_cursor,omitempty"`
	PageSize    int     `json:"page_size,omitempty"`
}

type queryResponse struct {
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}
