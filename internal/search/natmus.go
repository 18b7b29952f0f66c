package search

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"artefacthub/pkg/models"
)

const natmusBase = "https://api.natmus.dk/search/public/raw"

// Natmus searches the National Museum of Denmark's raw elasticsearch
// endpoint. Experimental: the upstream is a bare ES proxy with no stable
// contract.
type Natmus struct {
	Client  *http.Client
	BaseURL string
	limiter *rate.Limiter
}

func NewNatmus() *Natmus {
	return &Natmus{
		Client:  &http.Client{Timeout: 12 * time.Second},
		BaseURL: natmusBase,
		limiter: rate.NewLimiter(rate.Limit(2), 2),
	}
}

func (n *Natmus) Name() string { return "natmus" }

func (n *Natmus) Experimental() bool { return true }

type natmusQuery struct {
	Size  int `json:"size"`
	From  int `json:"from"`
	Query struct {
		Bool struct {
			Must []natmusMultiMatch `json:"must"`
		} `json:"bool"`
	} `json:"query"`
	Source bool `json:"_source"`
}

type natmusMultiMatch struct {
	MultiMatch struct {
		Query     string   `json:"query"`
		Fields    []string `json:"fields"`
		Fuzziness string   `json:"fuzziness"`
	} `json:"multi_match"`
}

type natmusResponse struct {
	Hits struct {
		Total int `json:"total"`
		Hits  []struct {
			ID     string `json:"_id"`
			Source struct {
				Title       string `json:"title"`
				Description string `json:"description"`
				Image       string `json:"image"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (n *Natmus) Search(ctx context.Context, req Request) (*Result, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		query = "vikingetid"
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := clampRange(req.Limit, 1, 100)

	var body natmusQuery
	body.Size = limit
	body.From = (page - 1) * limit
	body.Source = true
	var mm natmusMultiMatch
	mm.MultiMatch.Query = query
	mm.MultiMatch.Fields = []string{"content", "title", "description", "image"}
	mm.MultiMatch.Fuzziness = "AUTO"
	body.Query.Bool.Must = []natmusMultiMatch{mm}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("natmus: encode query: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, n.BaseURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("natmus: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	var payload natmusResponse
	if err := decodeUpstream(n.Client, n.limiter, httpReq, n.Name(), &payload); err != nil {
		return nil, err
	}

	items := make([]models.NormalizedItem, 0, len(payload.Hits.Hits))
	for _, hit := range payload.Hits.Hits {
		title := hit.Source.Title
		if title == "" {
			title = DefaultTitle
		}
		description := hit.Source.Description
		if description == "" {
			description = DefaultDescription
		}
		items = append(items, models.NormalizedItem{
			Title:       title,
			Description: description,
			EdmPreview:  hit.Source.Image,
			Source:      hit.ID,
			Provider:    FormatProviderName("natmus"),
		})
	}

	return &Result{
		Items:      items,
		Pagination: models.NewPaginationEnvelope(page, limit, payload.Hits.Total),
	}, nil
}
