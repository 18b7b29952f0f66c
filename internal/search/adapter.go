package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"artefacthub/pkg/models"
)

// Fallback strings for fields the UI renders unconditionally. Adapters must
// never emit an unset title/description/provider; absence upstream is coerced
// to one of these.
const (
	DefaultTitle       = "No Title provided by Collection"
	DefaultDescription = "No Description provided by Collection"
	DefaultProvider    = "Unknown Provider"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Request is the internal search request every adapter translates into its
// provider's native parameters. Page is 1-based; Limit is a hint that each
// adapter clamps to whatever its upstream accepts.
type Request struct {
	Query   string
	Page    int
	Limit   int
	Filters Filters
}

// Result is the uniform search outcome. Facets and AppliedFilters are only
// populated by providers that expose them (Europeana).
type Result struct {
	Items          []models.NormalizedItem   `json:"items"`
	Pagination     models.PaginationEnvelope `json:"pagination"`
	Facets         []Facet                   `json:"facets,omitempty"`
	AppliedFilters []string                  `json:"appliedFilters,omitempty"`
}

// Facet mirrors Europeana's facet block: a field name plus labelled counts.
type Facet struct {
	Name   string       `json:"name"`
	Fields []FacetField `json:"fields"`
}

type FacetField struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Adapter is implemented once per upstream museum API. Each adapter owns its
// request building and response mapping; there is no shared mapper branching
// on provider name.
type Adapter interface {
	Name() string
	Experimental() bool
	Search(ctx context.Context, req Request) (*Result, error)
}

// UpstreamError reports a provider failure: a non-2xx response, a payload
// that is not JSON, or a network-level error. StatusCode mirrors the
// upstream status, or 500 for network and decode failures, so handlers can
// forward it without inspecting the cause.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s upstream: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Registry maps route ids to adapters. Experimental adapters stay invisible
// unless the registry was built with them allowed, so a gated provider is
// indistinguishable from a nonexistent one.
type Registry struct {
	adapters          map[string]Adapter
	allowExperimental bool
}

func NewRegistry(allowExperimental bool, adapters ...Adapter) *Registry {
	r := &Registry{
		adapters:          make(map[string]Adapter, len(adapters)),
		allowExperimental: allowExperimental,
	}
	for _, a := range adapters {
		r.adapters[a.Name()] = a
	}
	return r
}

func (r *Registry) Lookup(name string) (Adapter, bool) {
	a, ok := r.adapters[strings.TrimSpace(name)]
	if !ok {
		return nil, false
	}
	if a.Experimental() && !r.allowExperimental {
		return nil, false
	}
	return a, true
}

// Names returns the ids of all adapters visible through Lookup, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.adapters))
	for name, a := range r.adapters {
		if a.Experimental() && !r.allowExperimental {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// FormatProviderName maps a route id to the institution's display name.
func FormatProviderName(apiSource string) string {
	switch apiSource {
	case "europeana":
		return "Europeana"
	case "digital-bodleian-oxford":
		return "Digital Bodleian - University of Oxford"
	case "fitzwilliam":
		return "Fitzwilliam Museum - University of Cambridge"
	case "natmus":
		return "National Museum of Denmark"
	case "finna":
		return "National Finnish Museum"
	case "digitaltmuseum":
		return "DigitaltMuseum"
	case "soch":
		return "Swedish Open Cultural Heritage"
	default:
		return apiSource
	}
}

// decodeUpstream runs one upstream request through the adapter's rate
// limiter, executes it, and decodes the JSON body into v. Every failure mode
// comes back as *UpstreamError; callers never see a partial decode.
func decodeUpstream(client *http.Client, limiter *rate.Limiter, req *http.Request, provider string, v any) error {
	if limiter != nil {
		if err := limiter.Wait(req.Context()); err != nil {
			return &UpstreamError{Provider: provider, StatusCode: http.StatusInternalServerError, Err: fmt.Errorf("rate limit wait: %w", err)}
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return &UpstreamError{Provider: provider, StatusCode: http.StatusInternalServerError, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &UpstreamError{Provider: provider, StatusCode: http.StatusInternalServerError, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamError{Provider: provider, StatusCode: resp.StatusCode, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &UpstreamError{Provider: provider, StatusCode: http.StatusInternalServerError, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

// clampRange forces n into [lo, hi].
func clampRange(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// joinComma composes "a, b" omitting either half when absent. Both absent
// yields "", never a bare comma.
func joinComma(a, b string) string {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	switch {
	case a != "" && b != "":
		return a + ", " + b
	case a != "":
		return a
	default:
		return b
	}
}
