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
	bodleianBase = "https://digital.bodleian.ox.ac.uk/search/"

	// Digital Bodleian rejects empty queries; searches without a term get
	// the app's theme as the default.
	bodleianDefaultQuery = "medieval"

	OxfordTitlePlaceholder       = "Title preview not provided by the collection"
	OxfordDescriptionPlaceholder = "Description preview not provided by the collection"
)

// Oxford searches Digital Bodleian's linked-data endpoint and enriches each
// hit from its IIIF manifest where one is referenced.
type Oxford struct {
	Client    *http.Client
	BaseURL   string
	Manifests *ManifestEnricher
	limiter   *rate.Limiter
}

func NewOxford() *Oxford {
	client := &http.Client{Timeout: 12 * time.Second}
	return &Oxford{
		Client:    client,
		BaseURL:   bodleianBase,
		Manifests: NewManifestEnricher(client),
		limiter:   rate.NewLimiter(rate.Limit(3), 3),
	}
}

func (o *Oxford) Name() string { return "digital-bodleian-oxford" }

func (o *Oxford) Experimental() bool { return false }

// ClampOxfordRows maps a requested page size onto the only values Digital
// Bodleian accepts. Anything not exactly in {20, 40, 100} becomes 20.
func ClampOxfordRows(n int) int {
	switch n {
	case 20, 40, 100:
		return n
	default:
		return 20
	}
}

type oxfordResponse struct {
	TotalItems int         `json:"totalItems"`
	View       oxfordView  `json:"view"`
	Member     []oxfordHit `json:"member"`
}

type oxfordView struct {
	TotalPages int    `json:"totalPages"`
	Next       string `json:"next"`
}

type oxfordHit struct {
	ID        string     `json:"id"`
	Title     StringList `json:"title"`
	Snippet   StringList `json:"snippet"`
	Thumbnail StringList `json:"thumbnail"`
	Manifest  struct {
		ID string `json:"id"`
	} `json:"manifest"`
}

func (o *Oxford) Search(ctx context.Context, req Request) (*Result, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		query = bodleianDefaultQuery
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := ClampOxfordRows(req.Limit)

	u, err := url.Parse(o.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("oxford: parse base url: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("rows", strconv.Itoa(limit))
	// Upstream treats an omitted page and page=1 as the same result set, but
	// an explicit page=1 returns a different one. Never serialize page=1.
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("oxford: build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/ld+json")

	var payload oxfordResponse
	if err := decodeUpstream(o.Client, o.limiter, httpReq, o.Name(), &payload); err != nil {
		return nil, err
	}

	items := make([]models.NormalizedItem, len(payload.Member))
	for i, hit := range payload.Member {
		items[i] = mapOxfordHit(hit)
	}

	// Best-effort quality upgrade: a failed manifest fetch leaves the
	// base-mapped hit in place, siblings unaffected, ordering preserved.
	o.Manifests.Enrich(ctx, payload.Member, items)

	totalPages := payload.View.TotalPages
	if totalPages == 0 && limit > 0 {
		totalPages = (payload.TotalItems + limit - 1) / limit
	}

	return &Result{
		Items: items,
		Pagination: models.PaginationEnvelope{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalItems:  payload.TotalItems,
			Limit:       limit,
			// The provider's next link is authoritative over the
			// page-count arithmetic when they disagree.
			HasNextPage: payload.View.Next != "",
			HasPrevPage: page > 1,
		},
	}, nil
}

// mapOxfordHit builds the base record from the search hit alone. Oxford does
// not expose an institution name, and authorship only exists in manifests,
// so Provider and Author stay empty here.
func mapOxfordHit(hit oxfordHit) models.NormalizedItem {
	return models.NormalizedItem{
		Title:       CleanPreviewField(hit.Title, OxfordTitlePlaceholder),
		Description: CleanPreviewField(hit.Snippet, OxfordDescriptionPlaceholder),
		EdmPreview:  hit.Thumbnail.First(""),
		Source:      hit.ID,
	}
}
