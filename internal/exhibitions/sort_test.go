package exhibitions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"artefacthub/pkg/models"
)

func titlesOf(items []models.NormalizedItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestSortItemsByTitle(t *testing.T) {
	items := []models.NormalizedItem{
		{Title: "", Source: "s1"},
		{Title: "Banana", Source: "s2"},
		{Title: "apple", Source: "s3"},
	}

	asc := SortItems(items, "title-asc")
	assert.Equal(t, []string{"", "apple", "Banana"}, titlesOf(asc))

	desc := SortItems(items, "title-desc")
	assert.Equal(t, []string{"Banana", "apple", ""}, titlesOf(desc))

	// input untouched
	assert.Equal(t, []string{"", "Banana", "apple"}, titlesOf(items))
}

func TestSortItemsNumericAware(t *testing.T) {
	items := []models.NormalizedItem{
		{Title: "Plate 10"},
		{Title: "Plate 2"},
		{Title: "Plate 1"},
	}
	asc := SortItems(items, "title-asc")
	assert.Equal(t, []string{"Plate 1", "Plate 2", "Plate 10"}, titlesOf(asc))
}

func TestSortItemsByAuthorAndProvider(t *testing.T) {
	items := []models.NormalizedItem{
		{Title: "a", Author: "Zeuxis", Provider: "Rijksmuseum"},
		{Title: "b", Author: "", Provider: "Europeana"},
		{Title: "c", Author: "apelles", Provider: ""},
	}

	byAuthor := SortItems(items, "author-asc")
	assert.Equal(t, []string{"b", "c", "a"}, titlesOf(byAuthor))

	byProvider := SortItems(items, "provider-desc")
	assert.Equal(t, []string{"a", "b", "c"}, titlesOf(byProvider))
}

func TestSortItemsIsIdempotent(t *testing.T) {
	items := []models.NormalizedItem{
		{Title: "delta", Source: "1"},
		{Title: "Delta", Source: "2"},
		{Title: "alpha", Source: "3"},
	}
	once := SortItems(items, "title-asc")
	twice := SortItems(once, "title-asc")
	// equal keys keep their relative order, so a second pass is a no-op
	assert.Equal(t, once, twice)
}

func TestSortItemsUnknownOptionKeepsOrder(t *testing.T) {
	items := []models.NormalizedItem{
		{Title: "b"}, {Title: "a"}, {Title: "c"},
	}
	for _, sortBy := range []string{"", "title", "title-up", "year-asc", "title-asc-extra"} {
		got := SortItems(items, sortBy)
		assert.Equal(t, titlesOf(items), titlesOf(got), "sortBy=%q", sortBy)
	}
}
