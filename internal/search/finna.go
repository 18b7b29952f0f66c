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

const (
	finnaBase = "https://api.finna.fi/v1/search"
	finnaSite = "https://www.finna.fi"

	// Finna rejects empty queries; the demo default keeps the theme.
	finnaDefaultQuery = "Viking"
)

// Finna searches the Finnish national aggregator. Experimental: the mapping
// is thinner than the stable adapters and the provider list is not curated.
type Finna struct {
	Client  *http.Client
	BaseURL string
	limiter *rate.Limiter
}

func NewFinna() *Finna {
	return &Finna{
		Client:  &http.Client{Timeout: 12 * time.Second},
		BaseURL: finnaBase,
		limiter: rate.NewLimiter(rate.Limit(2), 2),
	}
}

func (f *Finna) Name() string { return "finna" }

func (f *Finna) Experimental() bool { return true }

type finnaResponse struct {
	ResultCount int           `json:"resultCount"`
	Records     []finnaRecord `json:"records"`
}

type finnaRecord struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Images    []string   `json:"images"`
	Subjects  [][]string `json:"subjects"`
	Buildings []struct {
		Translated string `json:"translated"`
	} `json:"buildings"`
}

func (f *Finna) Search(ctx context.Context, req Request) (*Result, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		query = finnaDefaultQuery
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := clampRange(req.Limit, 1, 100)

	u, err := url.Parse(f.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("finna: parse base url: %w", err)
	}
	q := u.Query()
	q.Set("lookfor", query)
	q.Set("type", "AllFields")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("page", strconv.Itoa(page))
	for _, field := range []string{"id", "title", "images", "subjects", "buildings"} {
		q.Add("field[]", field)
	}
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("finna: build request: %w", err)
	}

	var payload finnaResponse
	if err := decodeUpstream(f.Client, f.limiter, httpReq, f.Name(), &payload); err != nil {
		return nil, err
	}

	items := make([]models.NormalizedItem, 0, len(payload.Records))
	for _, rec := range payload.Records {
		items = append(items, mapFinnaRecord(rec))
	}

	return &Result{
		Items:      items,
		Pagination: models.NewPaginationEnvelope(page, limit, payload.ResultCount),
	}, nil
}

func mapFinnaRecord(rec finnaRecord) models.NormalizedItem {
	title := rec.Title
	if title == "" {
		title = DefaultTitle
	}

	description := DefaultDescription
	if len(rec.Subjects) > 0 && len(rec.Subjects[0]) > 0 {
		var flat []string
		for _, group := range rec.Subjects {
			flat = append(flat, group...)
		}
		description = strings.Join(flat, ", ")
	}

	preview := ""
	if len(rec.Images) > 0 {
		preview = finnaSite + rec.Images[0]
	}

	provider := DefaultProvider
	if len(rec.Buildings) > 0 && rec.Buildings[0].Translated != "" {
		provider = rec.Buildings[0].Translated
	}

	source := rec.ID
	if source != "" {
		source = finnaSite + "/Record/" + url.PathEscape(source)
	}

	return models.NormalizedItem{
		Title:       title,
		Description: description,
		EdmPreview:  preview,
		Source:      source,
		Provider:    provider,
	}
}
