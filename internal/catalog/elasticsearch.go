package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"destination-recommender/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ElasticsearchSource reads every document of an index, ordered by the
// sortOrder field. Hits beyond maxItems are not fetched.
type ElasticsearchSource struct {
	client   *elasticsearch.Client
	index    string
	maxItems int
}

func NewElasticsearchSource(client *elasticsearch.Client, index string, maxItems int) *ElasticsearchSource {
	if index == "" {
		index = "destinations"
	}
	if maxItems <= 0 {
		maxItems = 1000
	}
	return &ElasticsearchSource{client: client, index: index, maxItems: maxItems}
}

func (s *ElasticsearchSource) Name() string { return "elasticsearch" }

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.Destination `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *ElasticsearchSource) Load(ctx context.Context) ([]models.Destination, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"query": map[string]interface{}{"match_all": map[string]interface{}{}},
		"sort": []interface{}{
			map[string]interface{}{"sortOrder": map[string]interface{}{"order": "asc", "unmapped_type": "long"}},
		},
	})

	size := s.maxItems
	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, loadFailed(s.Name(), fmt.Errorf("search %s: %w", s.index, err))
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, loadFailed(s.Name(), fmt.Errorf("search %s: %s", s.index, res.Status()))
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, loadFailed(s.Name(), fmt.Errorf("decode search response: %w", err))
	}

	items := make([]models.Destination, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		items = append(items, hit.Source)
	}
	return items, nil
}
