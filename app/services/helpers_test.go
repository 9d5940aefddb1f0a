package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/leykun-gizaw/temar-sub000/app/models"
	"github.com/leykun-gizaw/temar-sub000/app/notion"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.User{}, &models.Subject{}, &models.Topic{}, &models.Note{}))
	return gdb
}

// fakeAPI is an in-memory Notion. Creation responses normalize titles the
// way the real API can, so readback behavior is observable.
type fakeAPI struct {
	pages     map[string]*notion.Page
	databases map[string]*notion.Database
	children  map[string][]json.RawMessage
	calls     []string
	seq       int
	failOn    string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		pages:     map[string]*notion.Page{},
		databases: map[string]*notion.Database{},
		children:  map[string][]json.RawMessage{},
	}
}

func (f *fakeAPI) record(method string) error {
	f.calls = append(f.calls, method)
	if f.failOn == method {
		return fmt.Errorf("fake notion: %s failed", method)
	}
	return nil
}

func (f *fakeAPI) callCount() int { return len(f.calls) }

func (f *fakeAPI) addPage(id string, parent notion.Parent, name, description string) *notion.Page {
	page := &notion.Page{
		Object: "page",
		ID:     id,
		Parent: parent,
		Properties: map[string]notion.PropertyValue{
			"Name":        {Type: "title", Title: notion.NewRichText(name)},
			"Description": {Type: "rich_text", RichText: notion.NewRichText(description)},
		},
	}
	f.pages[id] = page
	return page
}

func (f *fakeAPI) addDatabase(id, dataSourceID string, parent notion.Parent) *notion.Database {
	db := &notion.Database{
		Object:      "database",
		ID:          id,
		Parent:      parent,
		DataSources: []notion.DataSourceRef{{ID: dataSourceID}},
	}
	f.databases[id] = db
	return db
}

func (f *fakeAPI) GetPage(_ context.Context, pageID string) (*notion.Page, error) {
	if err := f.record("GetPage"); err != nil {
		return nil, err
	}
	page, ok := f.pages[pageID]
	if !ok {
		return nil, fmt.Errorf("fake notion: page %s not found", pageID)
	}
	return page, nil
}

func (f *fakeAPI) GetDatabase(_ context.Context, databaseID string) (*notion.Database, error) {
	if err := f.record("GetDatabase"); err != nil {
		return nil, err
	}
	db, ok := f.databases[databaseID]
	if !ok {
		return nil, fmt.Errorf("fake notion: database %s not found", databaseID)
	}
	return db, nil
}

func (f *fakeAPI) GetBlockChildren(_ context.Context, blockID string) ([]json.RawMessage, error) {
	if err := f.record("GetBlockChildren"); err != nil {
		return nil, err
	}
	return f.children[blockID], nil
}

func (f *fakeAPI) CreateDatabase(_ context.Context, parentPageID, title string) (*notion.Database, error) {
	if err := f.record("CreateDatabase"); err != nil {
		return nil, err
	}
	f.seq++
	id := fmt.Sprintf("db-%d", f.seq)
	return f.addDatabase(id, fmt.Sprintf("ds-%d", f.seq), notion.Parent{Kind: notion.ParentPage, PageID: parentPageID}), nil
}

func (f *fakeAPI) CreatePage(_ context.Context, dataSourceID, name, description string) (*notion.Page, error) {
	if err := f.record("CreatePage"); err != nil {
		return nil, err
	}
	f.seq++
	id := fmt.Sprintf("page-%d", f.seq)
	parent := notion.Parent{Kind: notion.ParentDataSource, DataSourceID: dataSourceID}
	for _, db := range f.databases {
		if db.PrimaryDataSource() == dataSourceID {
			parent.DatabaseID = db.ID
		}
	}
	// the real API trims surrounding whitespace from written text
	return f.addPage(id, parent, strings.TrimSpace(name), strings.TrimSpace(description)), nil
}

func (f *fakeAPI) UpdatePageTitle(_ context.Context, pageID, title string) error {
	if err := f.record("UpdatePageTitle"); err != nil {
		return err
	}
	page, ok := f.pages[pageID]
	if !ok {
		return fmt.Errorf("fake notion: page %s not found", pageID)
	}
	page.Properties["Name"] = notion.PropertyValue{Type: "title", Title: notion.NewRichText(title)}
	return nil
}

func (f *fakeAPI) UpdatePageIcon(_ context.Context, pageID, _ string) error {
	if err := f.record("UpdatePageIcon"); err != nil {
		return err
	}
	if _, ok := f.pages[pageID]; !ok {
		return fmt.Errorf("fake notion: page %s not found", pageID)
	}
	return nil
}

func (f *fakeAPI) ArchivePage(_ context.Context, pageID string) error {
	if err := f.record("ArchivePage"); err != nil {
		return err
	}
	page, ok := f.pages[pageID]
	if !ok {
		return fmt.Errorf("fake notion: page %s not found", pageID)
	}
	page.Archived = true
	return nil
}

func fakeFactory(api *fakeAPI) notion.Factory {
	return func(string) notion.API { return api }
}
