package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sync"

	"artefacthub/pkg/models"
)

// Metadata labels the enricher looks for inside an IIIF manifest.
const (
	manifestLabelTitle       = "Title"
	manifestLabelDescription = "Description"
	manifestLabelDate        = "Date Statement"
	manifestLabelPlace       = "Place of Origin"
	manifestLabelHomepage    = "Homepage"
)

var hrefRe = regexp.MustCompile(`href="([^"]+)"`)

// ManifestEnricher overlays IIIF manifest metadata onto Oxford search hits.
// Manifests are the authoritative metadata source for Bodleian objects but
// are not guaranteed reachable or well-formed, so enrichment is strictly a
// quality upgrade: any failure keeps the base-mapped hit untouched.
type ManifestEnricher struct {
	Client *http.Client
}

func NewManifestEnricher(client *http.Client) *ManifestEnricher {
	return &ManifestEnricher{Client: client}
}

type manifestDoc struct {
	Metadata  []manifestField `json:"metadata"`
	Thumbnail manifestRef     `json:"thumbnail"`
}

type manifestRef struct {
	ID string `json:"@id"`
}

type manifestField struct {
	Label string     `json:"label"`
	Value StringList `json:"value"`
}

// Enrich fetches each hit's manifest concurrently and rewrites items in
// place. The fan-out is bounded by the page size and joined before
// returning; results are written by index so the original ordering is never
// disturbed.
func (m *ManifestEnricher) Enrich(ctx context.Context, hits []oxfordHit, items []models.NormalizedItem) {
	if m == nil || len(hits) == 0 {
		return
	}

	var wg sync.WaitGroup
	for i := range hits {
		manifestURL := hits[i].Manifest.ID
		if manifestURL == "" {
			continue
		}
		wg.Add(1)
		go func(i int, manifestURL string) {
			defer wg.Done()
			doc, err := m.fetch(ctx, manifestURL)
			if err != nil || len(doc.Metadata) == 0 {
				// fall back entirely to the base search-hit fields
				return
			}
			items[i] = enrichFromManifest(items[i], doc)
		}(i, manifestURL)
	}
	wg.Wait()
}

func (m *ManifestEnricher) fetch(ctx context.Context, manifestURL string) (*manifestDoc, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, manifestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("manifest request: %w", err)
	}

	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("manifest fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("manifest fetch: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("manifest read: %w", err)
	}

	var doc manifestDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("manifest decode: %w", err)
	}
	return &doc, nil
}

// enrichFromManifest overrides base fields with manifest metadata where
// present, keeping the base value for everything the manifest lacks.
func enrichFromManifest(base models.NormalizedItem, doc *manifestDoc) models.NormalizedItem {
	meta := make(map[string]StringList, len(doc.Metadata))
	for _, f := range doc.Metadata {
		meta[f.Label] = f.Value
	}

	out := base

	if doc.Thumbnail.ID != "" {
		out.EdmPreview = doc.Thumbnail.ID
	}
	if v, ok := meta[manifestLabelTitle]; ok && len(v) > 0 {
		out.Title = CleanPreviewField(v, OxfordTitlePlaceholder)
	}
	if v, ok := meta[manifestLabelDescription]; ok && len(v) > 0 {
		out.Description = CleanPreviewField(v, OxfordDescriptionPlaceholder)
	}
	if v, ok := meta[manifestLabelHomepage]; ok {
		// the homepage value is an HTML anchor fragment
		if match := hrefRe.FindStringSubmatch(v.First("")); match != nil {
			out.Source = match[1]
		}
	}
	// Bodleian manuscripts rarely have a named author; date statement and
	// place of origin stand in for one.
	if author := joinComma(meta[manifestLabelDate].First(""), meta[manifestLabelPlace].First("")); author != "" {
		out.Author = author
	}

	return out
}
