package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"lorve_back_end/internal/catalog"
	"lorve_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ProductIndex keeps products searchable in Elasticsearch.
type ProductIndex struct {
	client *elasticsearch.Client
	index  string
}

var _ catalog.Index = (*ProductIndex)(nil)

func NewProductIndex(client *elasticsearch.Client, index string) *ProductIndex {
	return &ProductIndex{client: client, index: index}
}

// searchFields are the product fields matched by full-text search.
var searchFields = []string{"name^3", "brand^2", "notes", "description"}

func (x *ProductIndex) Index(ctx context.Context, p models.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: p.ID,
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, x.client)
	if err != nil {
		return fmt.Errorf("index request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index %s: %s", p.Name, res.String())
	}
	log.Printf("✅ Product indexed in Elasticsearch: %s", p.Name)
	return nil
}

func (x *ProductIndex) Remove(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: x.index, DocumentID: id, Refresh: "true"}
	res, err := req.Do(ctx, x.client)
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete %s: %s", id, res.String())
	}
	return nil
}

// SearchBody builds the multi_match query sent for a search term.
func SearchBody(term string) ([]byte, error) {
	return json.Marshal(map[string]any{
		"size":    50,
		"_source": false,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     term,
				"fields":    searchFields,
				"fuzziness": "AUTO",
			},
		},
	})
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search returns the ids of matching products, best match first.
func (x *ProductIndex) Search(ctx context.Context, term string) ([]string, error) {
	body, err := SearchBody(term)
	if err != nil {
		return nil, err
	}

	res, err := x.client.Search(
		x.client.Search.WithContext(ctx),
		x.client.Search.WithIndex(x.index),
		x.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search: %s", strings.TrimSpace(res.String()))
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]string, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

// Reindex pushes the whole catalog, used at startup so the index
// follows the database.
func (x *ProductIndex) Reindex(ctx context.Context, products []models.Product) {
	var failed int
	for _, p := range products {
		if err := x.Index(ctx, p); err != nil {
			failed++
			log.Printf("⚠️ Reindex %s: %v", p.ID, err)
		}
	}
	log.Printf("🔎 Reindexed %d products (%d failed)", len(products)-failed, failed)
}
