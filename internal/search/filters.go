package search

import (
	"fmt"
	"strings"
)

// Filters is the structured refinement set a caller may attach to a search.
// Only Europeana understands all of them; other adapters ignore what their
// upstream cannot express.
type Filters struct {
	MediaType    string // IMAGE, TEXT, VIDEO, SOUND, 3D
	Reusability  string // open, restricted, permission
	ImageSize    string // small, medium, large, extra_large
	Country      string
	Language     string
	Colour       string // dominant colour, e.g. "#0000ff"
	YearMin      string
	YearMax      string
	HasMedia     bool
	HasThumbnail bool
}

// Refinements renders the filters as Europeana qf parameters, one per
// populated field. The year range is not a qf; Europeana takes it as
// separate f.year.min / f.year.max parameters.
func (f Filters) Refinements() []string {
	var qf []string
	if v := strings.TrimSpace(f.MediaType); v != "" {
		qf = append(qf, fmt.Sprintf("TYPE:%q", strings.ToUpper(v)))
	}
	if v := strings.TrimSpace(f.Reusability); v != "" {
		qf = append(qf, "REUSABILITY:"+strings.ToLower(v))
	}
	if v := strings.TrimSpace(f.ImageSize); v != "" {
		qf = append(qf, "IMAGE_SIZE:"+strings.ToLower(v))
	}
	if v := strings.TrimSpace(f.Country); v != "" {
		qf = append(qf, fmt.Sprintf("COUNTRY:%q", v))
	}
	if v := strings.TrimSpace(f.Language); v != "" {
		qf = append(qf, "LANGUAGE:"+strings.ToLower(v))
	}
	if v := strings.TrimSpace(f.Colour); v != "" {
		qf = append(qf, "COLOURPALETTE:"+strings.ToUpper(v))
	}
	if f.HasMedia {
		qf = append(qf, "MEDIA:true")
	}
	if f.HasThumbnail {
		qf = append(qf, "THUMBNAIL:true")
	}
	return qf
}
