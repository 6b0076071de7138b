package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/services"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
)

const maxHits = 1000

// Indexer maintient l'index produits et résout les recherches plein texte en ids.
// Toutes les requêtes passent par un circuit breaker : circuit ouvert = fallback SQL.
type Indexer struct {
	client *elasticsearch.Client
	index  string
	cb     *gobreaker.CircuitBreaker[[]byte]
}

func NewIndexer(client *elasticsearch.Client, index string) *Indexer {
	return &Indexer{
		client: client,
		index:  index,
		cb:     CreateCircuitBreaker("elasticsearch-" + index),
	}
}

func CreateCircuitBreaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	var st gobreaker.Settings
	st.Name = name
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= 3 && failureRatio >= 0.6
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("⚡ Circuit breaker")
	}
	return gobreaker.NewCircuitBreaker[[]byte](st)
}

type productDocument struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	Material     string `json:"material,omitempty"`
	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name,omitempty"`
	Price        string `json:"price"`
	Active       bool   `json:"active"`
	Featured     bool   `json:"featured"`
}

// do exécute la requête sous le circuit breaker et renvoie le corps de la réponse.
func (i *Indexer) do(ctx context.Context, req esapi.Request, okStatus ...int) ([]byte, error) {
	body, err := i.cb.Execute(func() ([]byte, error) {
		res, err := req.Do(ctx, i.client)
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()

		data, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, err
		}
		for _, code := range okStatus {
			if res.StatusCode == code {
				return data, nil
			}
		}
		if res.IsError() {
			return nil, fmt.Errorf("elasticsearch %s: %s", res.Status(), strings.TrimSpace(string(data)))
		}
		return data, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", services.ErrSearchUnavailable, err)
	}
	return body, err
}

// EnsureIndex crée l'index s'il n'existe pas encore.
func (i *Indexer) EnsureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{i.index}}.Do(ctx, i.client)
	if err != nil {
		return err
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	mapping := `{
  "mappings": {
    "properties": {
      "id":            {"type": "long"},
      "name":          {"type": "text"},
      "slug":          {"type": "keyword"},
      "description":   {"type": "text"},
      "material":      {"type": "text"},
      "category_id":   {"type": "long"},
      "category_name": {"type": "text"},
      "price":         {"type": "scaled_float", "scaling_factor": 100},
      "active":        {"type": "boolean"},
      "featured":      {"type": "boolean"}
    }
  }
}`
	_, err = i.do(ctx, esapi.IndicesCreateRequest{Index: i.index, Body: strings.NewReader(mapping)}, http.StatusBadRequest)
	if err != nil {
		return err
	}
	log.Info().Str("index", i.index).Msg("✅ Index Elasticsearch prêt")
	return nil
}

func (i *Indexer) IndexProduct(ctx context.Context, p models.Product) error {
	data, err := json.Marshal(productDocument{
		ID:           p.ID,
		Name:         p.Name,
		Slug:         p.Slug,
		Description:  p.Description,
		Material:     p.Material,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		Price:        p.Price.StringFixed(2),
		Active:       p.Active,
		Featured:     p.Featured,
	})
	if err != nil {
		return err
	}

	_, err = i.do(ctx, esapi.IndexRequest{
		Index:      i.index,
		DocumentID: strconv.FormatInt(p.ID, 10),
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	})
	return err
}

func (i *Indexer) DeleteProduct(ctx context.Context, id int64) error {
	_, err := i.do(ctx, esapi.DeleteRequest{
		Index:      i.index,
		DocumentID: strconv.FormatInt(id, 10),
		Refresh:    "true",
	}, http.StatusNotFound)
	return err
}

// SearchProductIDs : multi_match sur le nom, la description, la matière et la catégorie.
func (i *Indexer) SearchProductIDs(ctx context.Context, text string) ([]int64, error) {
	var buf bytes.Buffer
	q := map[string]any{
		"size":    maxHits,
		"_source": false,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     text,
				"fields":    []string{"name^3", "description", "material", "category_name"},
				"fuzziness": "AUTO",
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("erreur encodage requête: %w", err)
	}

	body, err := i.do(ctx, esapi.SearchRequest{Index: []string{i.index}, Body: &buf})
	if err != nil {
		return nil, err
	}

	var r struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("erreur décodage JSON: %w", err)
	}

	ids := make([]int64, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
