package domain

// Slide is the content of one step at one resolved version.
type Slide struct {
	StepID  string `json:"step_id"`
	Version int    `json:"version"`
	Title   string `json:"title,omitempty"`

	// Body is the raw slide source, usually markdown.
	Body string `json:"body"`
}
