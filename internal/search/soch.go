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

const sochBase = "https://www.kringla.nu/kringla/api"

// SOCH searches the Swedish Open Cultural Heritage aggregator. Experimental.
type SOCH struct {
	Client  *http.Client
	BaseURL string
	APIKey  string
	limiter *rate.Limiter
}

func NewSOCH(apiKey string) *SOCH {
	return &SOCH{
		Client:  &http.Client{Timeout: 12 * time.Second},
		BaseURL: sochBase,
		APIKey:  apiKey,
		limiter: rate.NewLimiter(rate.Limit(2), 2),
	}
}

func (s *SOCH) Name() string { return "soch" }

func (s *SOCH) Experimental() bool { return true }

type sochResponse struct {
	TotalCount int        `json:"totalCount"`
	Result     []sochItem `json:"result"`
}

type sochItem struct {
	ID          string     `json:"id"`
	Title       StringList `json:"title"`
	Description StringList `json:"description"`
	Thumbnail   string     `json:"thumbnail"`
}

func (s *SOCH) Search(ctx context.Context, req Request) (*Result, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		query = "vikingatid"
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := clampRange(req.Limit, 1, 100)

	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("soch: parse base url: %w", err)
	}
	q := u.Query()
	q.Set("query", query)
	q.Set("rows", strconv.Itoa(limit))
	q.Set("start", strconv.Itoa((page-1)*limit))
	q.Set("api.key", s.APIKey)
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("soch: build request: %w", err)
	}

	var payload sochResponse
	if err := decodeUpstream(s.Client, s.limiter, httpReq, s.Name(), &payload); err != nil {
		return nil, err
	}

	items := make([]models.NormalizedItem, 0, len(payload.Result))
	for _, it := range payload.Result {
		items = append(items, models.NormalizedItem{
			Title:       it.Title.First(DefaultTitle),
			Description: it.Description.First(DefaultDescription),
			EdmPreview:  it.Thumbnail,
			Source:      it.ID,
			Provider:    FormatProviderName("soch"),
		})
	}

	total := payload.TotalCount
	if total == 0 {
		total = len(items)
	}

	return &Result{
		Items:      items,
		Pagination: models.NewPaginationEnvelope(page, limit, total),
	}, nil
}
