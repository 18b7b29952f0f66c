package models

// NormalizedItem is the uniform artifact record every provider adapter
// produces, regardless of how the upstream museum API shapes its payload.
//
// Title, Description, Source and EdmPreview are always set (placeholder or
// empty string when the provider omits them) because the UI renders them
// unconditionally. Provider and Author are genuinely optional.
type NormalizedItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	EdmPreview  string `json:"edmPreview"`
	Source      string `json:"source"`
	Provider    string `json:"provider,omitempty"`
	Author      string `json:"author,omitempty"`
}

// SameArtifact reports whether two items refer to the same artifact.
// Identity is the (title, source) pair, matching the dedup rule the
// exhibition store enforces at insertion time.
func (n NormalizedItem) SameArtifact(other NormalizedItem) bool {
	return n.Title == other.Title && n.Source == other.Source
}
