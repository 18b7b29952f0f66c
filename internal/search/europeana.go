package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"artefacthub/pkg/models"
)

const europeanaBase = "https://api.europeana.eu/record/v2/search.json"

// Europeana accepts rows anywhere in this range; anything outside is clamped.
const (
	europeanaMinRows = 5
	europeanaMaxRows = 50
)

// Europeana searches the Europeana Search API. Every item field upstream is
// array-or-absent, so mapping is first-element-or-fallback throughout.
type Europeana struct {
	Client  *http.Client
	BaseURL string
	APIKey  string
	limiter *rate.Limiter
}

func NewEuropeana(apiKey string) *Europeana {
	return &Europeana{
		Client:  &http.Client{Timeout: 12 * time.Second},
		BaseURL: europeanaBase,
		APIKey:  apiKey,
		limiter: rate.NewLimiter(rate.Limit(3), 3),
	}
}

func (e *Europeana) Name() string { return "europeana" }

func (e *Europeana) Experimental() bool { return false }

type europeanaResponse struct {
	Success      bool             `json:"success"`
	TotalResults int              `json:"totalResults"`
	Items        []europeanaItem  `json:"items"`
	Facets       []europeanaFacet `json:"facets"`
}

type europeanaItem struct {
	Title         StringList `json:"title"`
	DcDescription StringList `json:"dcDescription"`
	EdmPreview    StringList `json:"edmPreview"`
	DataProvider  StringList `json:"dataProvider"`
	DcCreator     StringList `json:"dcCreator"`
	Country       StringList `json:"country"`
	GUID          string     `json:"guid"`
	Link          string     `json:"link"`
}

type europeanaFacet struct {
	Name   string `json:"name"`
	Fields []struct {
		Label string `json:"label"`
		Count int    `json:"count"`
	} `json:"fields"`
}

// Search runs a query against Europeana. An empty query is passed through
// untouched; Europeana tolerates it.
func (e *Europeana) Search(ctx context.Context, req Request) (*Result, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := clampRange(req.Limit, europeanaMinRows, europeanaMaxRows)
	start := (page-1)*limit + 1

	u, err := url.Parse(e.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("europeana: parse base url: %w", err)
	}

	refinements := req.Filters.Refinements()

	q := u.Query()
	q.Set("query", req.Query)
	q.Set("rows", strconv.Itoa(limit))
	q.Set("start", strconv.Itoa(start))
	q.Set("profile", "standard")
	q.Set("wskey", e.APIKey)
	for _, qf := range refinements {
		q.Add("qf", qf)
	}
	if req.Filters.YearMin != "" {
		q.Set("f.year.min", req.Filters.YearMin)
	}
	if req.Filters.YearMax != "" {
		q.Set("f.year.max", req.Filters.YearMax)
	}
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("europeana: build request: %w", err)
	}

	var payload europeanaResponse
	if err := decodeUpstream(e.Client, e.limiter, httpReq, e.Name(), &payload); err != nil {
		return nil, err
	}

	items := make([]models.NormalizedItem, 0, len(payload.Items))
	for _, it := range payload.Items {
		items = append(items, mapEuropeanaItem(it))
	}

	facets := make([]Facet, 0, len(payload.Facets))
	for _, f := range payload.Facets {
		facet := Facet{Name: f.Name}
		for _, field := range f.Fields {
			facet.Fields = append(facet.Fields, FacetField{Label: field.Label, Count: field.Count})
		}
		facets = append(facets, facet)
	}

	return &Result{
		Items:          items,
		Pagination:     models.NewPaginationEnvelope(page, limit, payload.TotalResults),
		Facets:         facets,
		AppliedFilters: refinements,
	}, nil
}

func mapEuropeanaItem(it europeanaItem) models.NormalizedItem {
	source := it.GUID
	if source == "" {
		source = it.Link
	}

	return models.NormalizedItem{
		Title:       it.Title.First(DefaultTitle),
		Description: it.DcDescription.First(DefaultDescription),
		EdmPreview:  it.EdmPreview.First(""),
		Source:      source,
		Provider:    it.DataProvider.First(DefaultProvider),
		Author:      joinComma(it.DcCreator.First(""), it.Country.First("")),
	}
}
