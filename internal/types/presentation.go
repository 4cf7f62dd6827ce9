package types

// Presentation is the structured slide-deck contract produced by the model
// for the PPTX generation flow.
type Presentation struct {
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle,omitempty"`
	Slides   []Slide `json:"slides"`
}

// Slide is a single slide: a title with bullet content.
type Slide struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets,omitempty"`
	Notes   string   `json:"notes,omitempty"`
}
