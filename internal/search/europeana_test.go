package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEuropeana(ts *httptest.Server) *Europeana {
	e := NewEuropeana("test-key")
	e.BaseURL = ts.URL
	e.Client = ts.Client()
	return e
}

func TestEuropeanaSearchMapsItems(t *testing.T) {
	var gotURL *url.URL
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"totalResults": 120,
			"items": [
				{
					"title": ["Gold bracteate"],
					"dcDescription": ["Migration period pendant"],
					"edmPreview": ["https://img.example/1.jpg"],
					"dataProvider": ["National Museum of Denmark"],
					"dcCreator": ["Unknown goldsmith"],
					"country": ["Denmark"],
					"guid": "https://www.europeana.eu/item/1"
				},
				{
					"guid": "https://www.europeana.eu/item/2"
				}
			]
		}`))
	}))
	defer ts.Close()

	res, err := newTestEuropeana(ts).Search(context.Background(), Request{Query: "bracteate", Page: 2, Limit: 10})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)

	first := res.Items[0]
	assert.Equal(t, "Gold bracteate", first.Title)
	assert.Equal(t, "Migration period pendant", first.Description)
	assert.Equal(t, "https://img.example/1.jpg", first.EdmPreview)
	assert.Equal(t, "National Museum of Denmark", first.Provider)
	assert.Equal(t, "Unknown goldsmith, Denmark", first.Author)
	assert.Equal(t, "https://www.europeana.eu/item/1", first.Source)

	// every field upstream was absent: fall back per field, author omitted
	second := res.Items[1]
	assert.Equal(t, DefaultTitle, second.Title)
	assert.Equal(t, DefaultDescription, second.Description)
	assert.Equal(t, DefaultProvider, second.Provider)
	assert.Equal(t, "", second.EdmPreview)
	assert.Equal(t, "", second.Author)

	q := gotURL.Query()
	assert.Equal(t, "bracteate", q.Get("query"))
	assert.Equal(t, "10", q.Get("rows"))
	assert.Equal(t, "11", q.Get("start")) // (page-1)*limit + 1
	assert.Equal(t, "test-key", q.Get("wskey"))

	p := res.Pagination
	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 12, p.TotalPages)
	assert.Equal(t, 120, p.TotalItems)
	assert.Equal(t, 10, p.Limit)
	assert.True(t, p.HasNextPage)
	assert.True(t, p.HasPrevPage)
}

func TestEuropeanaAuthorVariants(t *testing.T) {
	tests := []struct {
		name     string
		item     europeanaItem
		expected string
	}{
		{name: "creator and country", item: europeanaItem{DcCreator: StringList{"A"}, Country: StringList{"B"}}, expected: "A, B"},
		{name: "creator only", item: europeanaItem{DcCreator: StringList{"A"}}, expected: "A"},
		{name: "country only", item: europeanaItem{Country: StringList{"B"}}, expected: "B"},
		{name: "both absent omits author", item: europeanaItem{}, expected: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mapEuropeanaItem(tt.item).Author)
		})
	}
}

func TestEuropeanaClampsLimit(t *testing.T) {
	var gotRows string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRows = r.URL.Query().Get("rows")
		_, _ = w.Write([]byte(`{"success": true, "totalResults": 0, "items": []}`))
	}))
	defer ts.Close()
	e := newTestEuropeana(ts)

	res, err := e.Search(context.Background(), Request{Query: "x", Page: 1, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, "50", gotRows)
	assert.Equal(t, 50, res.Pagination.Limit)

	res, err = e.Search(context.Background(), Request{Query: "x", Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, "5", gotRows)
	assert.Equal(t, 5, res.Pagination.Limit)
}

func TestEuropeanaAppliesRefinements(t *testing.T) {
	var got url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte(`{"success": true, "totalResults": 0, "items": []}`))
	}))
	defer ts.Close()

	res, err := newTestEuropeana(ts).Search(context.Background(), Request{
		Query: "sword",
		Page:  1,
		Limit: 10,
		Filters: Filters{
			MediaType:    "image",
			Reusability:  "open",
			YearMin:      "700",
			YearMax:      "1100",
			HasThumbnail: true,
		},
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{`TYPE:"IMAGE"`, "REUSABILITY:open", "THUMBNAIL:true"}, got["qf"])
	assert.Equal(t, "700", got.Get("f.year.min"))
	assert.Equal(t, "1100", got.Get("f.year.max"))
	assert.Equal(t, []string{`TYPE:"IMAGE"`, "REUSABILITY:open", "THUMBNAIL:true"}, res.AppliedFilters)
}

func TestEuropeanaUpstreamFailuresBecomeUpstreamErrors(t *testing.T) {
	tests := []struct {
		name           string
		handler        http.HandlerFunc
		expectedStatus int
	}{
		{
			name: "non-2xx mirrors status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			expectedStatus: http.StatusTooManyRequests,
		},
		{
			name: "non-JSON body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>not json</html>"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			_, err := newTestEuropeana(ts).Search(context.Background(), Request{Query: "x", Page: 1, Limit: 10})
			var ue *UpstreamError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, tt.expectedStatus, ue.StatusCode)
			assert.Equal(t, "europeana", ue.Provider)
		})
	}
}

func TestEuropeanaNetworkFailureIs500(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // connection refused from here on

	_, err := newTestEuropeana(ts).Search(context.Background(), Request{Query: "x", Page: 1, Limit: 10})
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusInternalServerError, ue.StatusCode)
}
