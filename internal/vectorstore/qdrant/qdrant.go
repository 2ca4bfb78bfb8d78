package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"clusterviz/internal/domain"
	"clusterviz/internal/vectorstore"
)

// scrollPageSize is the number of points fetched per scroll request.
const scrollPageSize = 256

var _ vectorstore.Storage = (*Storage)(nil)

// Storage is a minimal REST client to a Qdrant collection of entity vectors.
// Each point carries the entity tag in its payload under tagField.
// It assumes cosine distance and creates the collection if missing.
type Storage struct {
	url        string
	apiKey     string
	collection string
	tagField   string
	clusters   map[string]int
	client     *http.Client
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
	TagField   string
	Timeout    time.Duration
	// Clusters maps entity tag to cluster id for search results. May be nil.
	Clusters map[string]int
}

func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	tagField := cfg.TagField
	if tagField == "" {
		tagField = "tag"
	}
	return &Storage{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		tagField:   tagField,
		clusters:   cfg.Clusters,
		client:     &http.Client{Timeout: timeout},
	}
}

// SetClusters replaces the entity to cluster mapping used to annotate search results.
func (s *Storage) SetClusters(clusters map[string]int) { s.clusters = clusters }

// Init creates the collection for vectors of the given dimension.
func (s *Storage) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	// Qdrant returns 200 OK if collection exists with same schema; if error, propagate
	return s.doJSON(ctx, http.MethodPut, s.collectionURL(""), body, nil)
}

// Vectors scrolls the whole collection. Points without a string tag are skipped.
func (s *Storage) Vectors(ctx context.Context, _ []string) ([]domain.EntityVector, error) {
	var out []domain.EntityVector
	var offset any
	for {
		req := map[string]any{
			"limit":        scrollPageSize,
			"with_payload": []string{s.tagField},
			"with_vector":  true,
		}
		if offset != nil {
			req["offset"] = offset
		}
		var resp struct {
			Result struct {
				Points []struct {
					Payload map[string]any `json:"payload"`
					Vector  []float64      `json:"vector"`
				} `json:"points"`
				NextPageOffset any `json:"next_page_offset"`
			} `json:"result"`
		}
		if err := s.doJSON(ctx, http.MethodPost, s.collectionURL("/points/scroll"), req, &resp); err != nil {
			return nil, err
		}
		for _, p := range resp.Result.Points {
			tag, ok := p.Payload[s.tagField].(string)
			if !ok || len(p.Vector) == 0 {
				continue
			}
			out = append(out, domain.EntityVector{Tag: tag, Vector: p.Vector})
		}
		if resp.Result.NextPageOffset == nil {
			break
		}
		offset = resp.Result.NextPageOffset
	}
	return out, nil
}

// Upsert stores vectors with ids derived from their tags.
func (s *Storage) Upsert(ctx context.Context, vectors []domain.EntityVector) error {
	points := make([]map[string]any, len(vectors))
	for i, v := range vectors {
		points[i] = map[string]any{
			"id":      pointID(v.Tag),
			"vector":  v.Vector,
			"payload": map[string]any{s.tagField: v.Tag},
		}
	}
	body := map[string]any{"points": points}
	return s.doJSON(ctx, http.MethodPut, s.collectionURL("/points?wait=true"), body, nil)
}

// Search returns the topK entities most similar to vector.
func (s *Storage) Search(ctx context.Context, vector []float64, topK int) ([]domain.Neighbor, error) {
	if topK <= 0 {
		topK = 5
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := s.doJSON(ctx, http.MethodPost, s.collectionURL("/points/search"), req, &resp); err != nil {
		return nil, err
	}
	results := make([]domain.Neighbor, 0, len(resp.Result))
	for _, r := range resp.Result {
		tag, _ := r.Payload[s.tagField].(string)
		id, ok := s.clusters[tag]
		if !ok {
			id = domain.Unclustered
		}
		results = append(results, domain.Neighbor{Tag: tag, ClusterID: id, Score: r.Score})
	}
	return results, nil
}

// Clear drops the collection. Best effort.
func (s *Storage) Clear() error {
	req, err := http.NewRequest(http.MethodDelete, s.collectionURL(""), nil)
	if err != nil {
		return err
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err == nil {
		_ = resp.Body.Close()
	}
	return nil
}

func (s *Storage) collectionURL(suffix string) string {
	return fmt.Sprintf("%s/collections/%s%s", s.url, s.collection, suffix)
}

func (s *Storage) doJSON(ctx context.Context, method, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// pointID maps a tag to a stable UUID; Qdrant only accepts integers and UUIDs as ids.
func pointID(tag string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("clusterviz:"+tag)).String()
}
