package loam

// SlideMetadata represents the frontmatter of a slide document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type SlideMetadata struct {
	Step  string `json:"step" mapstructure:"step"`
	Title string `json:"title" mapstructure:"title"`

	// Version is decoded loosely: strict mode yields json.Number,
	// YAML may yield int or string.
	Version any `json:"version" mapstructure:"version"`
}
