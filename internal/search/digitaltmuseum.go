package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"artefacthub/pkg/models"
)

const dimuBase = "https://api.dimu.org/search"

// DigitaltMuseum searches the Nordic DigitaltMuseum aggregator. Experimental.
type DigitaltMuseum struct {
	Client  *http.Client
	BaseURL string
	APIKey  string
	limiter *rate.Limiter
}

func NewDigitaltMuseum(apiKey string) *DigitaltMuseum {
	return &DigitaltMuseum{
		Client:  &http.Client{Timeout: 12 * time.Second},
		BaseURL: dimuBase,
		APIKey:  apiKey,
		limiter: rate.NewLimiter(rate.Limit(2), 2),
	}
}

func (d *DigitaltMuseum) Name() string { return "digitaltmuseum" }

func (d *DigitaltMuseum) Experimental() bool { return true }

type dimuResponse struct {
	TotalItems int        `json:"totalItems"`
	Items      []dimuItem `json:"items"`
}

type dimuItem struct {
	ID          string     `json:"id"`
	Title       StringList `json:"title"`
	Description StringList `json:"description"`
	Thumbnail   string     `json:"thumbnail"`
	Owner       string     `json:"owner"`
}

func (d *DigitaltMuseum) Search(ctx context.Context, req Request) (*Result, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		query = "medeltid"
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := clampRange(req.Limit, 1, 100)

	u, err := url.Parse(d.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("digitaltmuseum: parse base url: %w", err)
	}
	q := u.Query()
	q.Set("query", query)
	q.Set("rows", strconv.Itoa(limit))
	q.Set("start", strconv.Itoa((page-1)*limit))
	q.Set("api.key", d.APIKey)
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("digitaltmuseum: build request: %w", err)
	}

	var payload dimuResponse
	if err := decodeUpstream(d.Client, d.limiter, httpReq, d.Name(), &payload); err != nil {
		return nil, err
	}

	items := make([]models.NormalizedItem, 0, len(payload.Items))
	for _, it := range payload.Items {
		provider := it.Owner
		if provider == "" {
			provider = FormatProviderName("digitaltmuseum")
		}
		items = append(items, models.NormalizedItem{
			Title:       it.Title.First(DefaultTitle),
			Description: it.Description.First(DefaultDescription),
			EdmPreview:  it.Thumbnail,
			Source:      it.ID,
			Provider:    provider,
		})
	}

	total := payload.TotalItems
	if total == 0 {
		total = len(items)
	}

	return &Result{
		Items:      items,
		Pagination: models.NewPaginationEnvelope(page, limit, total),
	}, nil
}
