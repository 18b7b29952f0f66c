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

const fitzwilliamBase = "https://data.fitzmuseum.cam.ac.uk/api/v1/objects"

// Fitzwilliam searches the Fitzwilliam Museum object API. Experimental.
type Fitzwilliam struct {
	Client  *http.Client
	BaseURL string
	limiter *rate.Limiter
}

func NewFitzwilliam() *Fitzwilliam {
	return &Fitzwilliam{
		Client:  &http.Client{Timeout: 12 * time.Second},
		BaseURL: fitzwilliamBase,
		limiter: rate.NewLimiter(rate.Limit(2), 2),
	}
}

func (f *Fitzwilliam) Name() string { return "fitzwilliam" }

func (f *Fitzwilliam) Experimental() bool { return true }

type fitzResponse struct {
	Data []fitzRecord `json:"data"`
	Meta struct {
		TotalResults int `json:"total_results"`
	} `json:"meta"`
}

type fitzRecord struct {
	SummaryTitle string     `json:"summary_title"`
	Description  StringList `json:"description"`
	Admin        struct {
		ID string `json:"id"`
	} `json:"admin"`
	Multimedia []struct {
		Processed struct {
			Preview struct {
				Location string `json:"location"`
			} `json:"preview"`
		} `json:"processed"`
	} `json:"multimedia"`
}

func (f *Fitzwilliam) Search(ctx context.Context, req Request) (*Result, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		query = "medieval"
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := clampRange(req.Limit, 1, 100)

	u, err := url.Parse(f.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("fitzwilliam: parse base url: %w", err)
	}
	q := u.Query()
	q.Set("query", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(limit))
	q.Set("sort", "asc")
	q.Set("hasImage", "1")
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("fitzwilliam: build request: %w", err)
	}

	var payload fitzResponse
	if err := decodeUpstream(f.Client, f.limiter, httpReq, f.Name(), &payload); err != nil {
		return nil, err
	}

	items := make([]models.NormalizedItem, 0, len(payload.Data))
	for _, rec := range payload.Data {
		items = append(items, mapFitzRecord(rec))
	}

	total := payload.Meta.TotalResults
	if total == 0 {
		total = len(items)
	}

	return &Result{
		Items:      items,
		Pagination: models.NewPaginationEnvelope(page, limit, total),
	}, nil
}

func mapFitzRecord(rec fitzRecord) models.NormalizedItem {
	title := rec.SummaryTitle
	if title == "" {
		title = DefaultTitle
	}

	preview := ""
	if len(rec.Multimedia) > 0 {
		preview = rec.Multimedia[0].Processed.Preview.Location
	}

	return models.NormalizedItem{
		Title:       title,
		Description: rec.Description.First(DefaultDescription),
		EdmPreview:  preview,
		Source:      rec.Admin.ID,
		Provider:    FormatProviderName("fitzwilliam"),
	}
}
