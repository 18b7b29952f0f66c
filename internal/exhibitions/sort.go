package exhibitions

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"artefacthub/pkg/models"
)

// SortItems returns a sorted copy of items. sortBy is "<key>-<dir>" with key
// in {title, author, provider} and dir in {asc, desc}; anything else returns
// the copy in its original order. Comparison is locale-aware, numeric-aware
// and case-insensitive; missing values compare as the empty string. The sort
// is stable, so applying it twice changes nothing.
func SortItems(items []models.NormalizedItem, sortBy string) []models.NormalizedItem {
	sorted := make([]models.NormalizedItem, len(items))
	copy(sorted, items)

	key, dir, ok := splitSortOption(sortBy)
	if !ok {
		return sorted
	}

	var field func(models.NormalizedItem) string
	switch key {
	case "title":
		field = func(it models.NormalizedItem) string { return it.Title }
	case "author":
		field = func(it models.NormalizedItem) string { return it.Author }
	case "provider":
		field = func(it models.NormalizedItem) string { return it.Provider }
	default:
		return sorted
	}

	// collate.Collator is not safe for concurrent use; build one per call.
	col := collate.New(language.Und, collate.Numeric, collate.IgnoreCase)

	sort.SliceStable(sorted, func(i, j int) bool {
		a := strings.TrimSpace(field(sorted[i]))
		b := strings.TrimSpace(field(sorted[j]))
		if dir == "desc" {
			return col.CompareString(b, a) < 0
		}
		return col.CompareString(a, b) < 0
	})
	return sorted
}

func splitSortOption(sortBy string) (key, dir string, ok bool) {
	parts := strings.Split(strings.TrimSpace(sortBy), "-")
	if len(parts) != 2 {
		return "", "", false
	}
	if parts[1] != "asc" && parts[1] != "desc" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
