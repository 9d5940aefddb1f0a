package notion

import (
	"encoding/json"
	"fmt"
)

// ParentKind discriminates the parent union the Notion API attaches to
// pages and databases.
type ParentKind int

const (
	ParentUnknown ParentKind = iota
	ParentPage
	ParentDatabase
	ParentDataSource
	ParentWorkspace
)

func (k ParentKind) String() string {
	switch k {
	case ParentPage:
		return "page_id"
	case ParentDatabase:
		return "database_id"
	case ParentDataSource:
		return "data_source_id"
	case ParentWorkspace:
		return "workspace"
	default:
		return "unknown"
	}
}

// Parent is the runtime-tagged parent reference. Exactly one id field is
// meaningful for a given Kind, except ParentDataSource which also carries
// the enclosing database id when the API provides it.
type Parent struct {
	Kind         ParentKind
	PageID       string
	DatabaseID   string
	DataSourceID string
}

type parentWire struct {
	Type         string `json:"type"`
	PageID       string `json:"page_id,omitempty"`
	DatabaseID   string `json:"database_id,omitempty"`
	DataSourceID string `json:"data_source_id,omitempty"`
	Workspace    bool   `json:"workspace,omitempty"`
}

func (p *Parent) UnmarshalJSON(data []byte) error {
	var w parentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Type {
	case "page_id":
		*p = Parent{Kind: ParentPage, PageID: w.PageID}
	case "database_id":
		*p = Parent{Kind: ParentDatabase, DatabaseID: w.DatabaseID}
	case "data_source_id":
		*p = Parent{Kind: ParentDataSource, DataSourceID: w.DataSourceID, DatabaseID: w.DatabaseID}
	case "workspace":
		*p = Parent{Kind: ParentWorkspace}
	default:
		*p = Parent{Kind: ParentUnknown}
	}
	return nil
}

func (p Parent) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case ParentPage:
		return json.Marshal(parentWire{Type: "page_id", PageID: p.PageID})
	case ParentDatabase:
		return json.Marshal(parentWire{Type: "database_id", DatabaseID: p.DatabaseID})
	case ParentDataSource:
		return json.Marshal(parentWire{Type: "data_source_id", DataSourceID: p.DataSourceID, DatabaseID: p.DatabaseID})
	case ParentWorkspace:
		return json.Marshal(parentWire{Type: "workspace", Workspace: true})
	default:
		return nil, fmt.Errorf("notion: cannot marshal parent of kind %s", p.Kind)
	}
}

type TextContent struct {
	Content string `json:"content"`
}

type RichText struct {
	Type      string       `json:"type,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

// NewRichText builds the single-segment rich text array used when writing
// Name/Description property values.
func NewRichText(content string) []RichText {
	return []RichText{{Type: "text", Text: &TextContent{Content: content}}}
}

func PlainText(rts []RichText) string {
	out := ""
	for _, rt := range rts {
		if rt.PlainText != "" {
			out += rt.PlainText
			continue
		}
		if rt.Text != nil {
			out += rt.Text.Content
		}
	}
	return out
}

type PropertyValue struct {
	ID       string     `json:"id,omitempty"`
	Type     string     `json:"type,omitempty"`
	Title    []RichText `json:"title,omitempty"`
	RichText []RichText `json:"rich_text,omitempty"`
}

type Page struct {
	Object     string                   `json:"object"`
	ID         string                   `json:"id"`
	Parent     Parent                   `json:"parent"`
	Archived   bool                     `json:"archived"`
	Properties map[string]PropertyValue `json:"properties"`
}

// Title returns the page's title property as plain text, whatever
// property name it was stored under.
func (p *Page) Title() string {
	for _, prop := range p.Properties {
		if prop.Type == "title" {
			return PlainText(prop.Title)
		}
	}
	return ""
}

// Description returns the plain text of the Description rich text
// property, empty when the page has none.
func (p *Page) Description() string {
	prop, ok := p.Properties[propDescription]
	if !ok || prop.Type != "rich_text" {
		return ""
	}
	return PlainText(prop.RichText)
}

// IsFull reports whether the response carried a complete page object
// rather than a partial reference.
func (p *Page) IsFull() bool {
	return p != nil && p.Object == "page" && p.ID != "" && p.Parent.Kind != ParentUnknown
}

type DataSourceRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type Database struct {
	Object      string          `json:"object"`
	ID          string          `json:"id"`
	Parent      Parent          `json:"parent"`
	Title       []RichText      `json:"title"`
	DataSources []DataSourceRef `json:"data_sources"`
}

// PrimaryDataSource returns the id of the database's first data source,
// which is the collection new child pages are created in.
func (d *Database) PrimaryDataSource() string {
	if d == nil || len(d.DataSources) == 0 {
		return ""
	}
	return d.DataSources[0].ID
}

type blockChildrenResponse struct {
	Object     string            `json:"object"`
	Results    []json.RawMessage `json:"results"`
	HasMore    bool              `json:"has_more"`
	NextCursor string            `json:"next_cursor"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
