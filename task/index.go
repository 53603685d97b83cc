package task

import (
	"fmt"
	"os"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/google/uuid"
)

// Index is an optional full-text index over tasks, used by the HTTP
// API's full-text search mode. The Engine's SearchTasks substring
// search does not depend on it.
type Index struct {
	mu  sync.RWMutex
	idx bleve.Index
}

// indexDocument is the shape stored in bleve.
type indexDocument struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Priority    string   `json:"priority"`
}

// NewIndex opens or creates a bleve index at path. An empty path
// builds an in-memory index, which is what the tests use.
func NewIndex(path string) (*Index, error) {
	m := buildIndexMapping()

	var idx bleve.Index
	var err error
	switch {
	case path == "":
		idx, err = bleve.NewMemOnly(m)
	default:
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			idx, err = bleve.New(path, m)
		} else {
			idx, err = bleve.Open(path)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open task index: %w", err)
	}
	return &Index{idx: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	doc := bleve.NewDocumentMapping()

	text := bleve.NewTextFieldMapping()
	text.Analyzer = standard.Name
	keyword := bleve.NewKeywordFieldMapping()

	doc.AddFieldMappingsAt("title", text)
	doc.AddFieldMappingsAt("description", text)
	doc.AddFieldMappingsAt("tags", text)
	doc.AddFieldMappingsAt("priority", keyword)

	im := bleve.NewIndexMapping()
	im.DefaultMapping = doc
	im.DefaultAnalyzer = standard.Name
	return im
}

// Add indexes or re-indexes one task.
func (ix *Index) Add(t Task) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	doc := indexDocument{
		Title:       t.Title,
		Description: t.Description,
		Tags:        t.Tags,
		Priority:    string(t.Priority),
	}
	if err := ix.idx.Index(t.ID.String(), doc); err != nil {
		return fmt.Errorf("index task: %w", err)
	}
	return nil
}

// Remove drops a task from the index. Removing an unknown id is a
// no-op.
func (ix *Index) Remove(id uuid.UUID) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if err := ix.idx.Delete(id.String()); err != nil {
		return fmt.Errorf("unindex task: %w", err)
	}
	return nil
}

// Search runs a full-text match over title, description and tags and
// returns matching task ids, best first.
func (ix *Index) Search(keyword string, limit int) ([]uuid.UUID, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	q := bleve.NewMatchQuery(keyword)
	req := bleve.NewSearchRequest(q)
	req.Size = limit

	res, err := ix.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search task index: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Close releases the underlying index.
func (ix *Index) Close() error {
	return ix.idx.Close()
}
