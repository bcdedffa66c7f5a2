package nanogen

// Part is one unit of a generation request payload: either a text fragment
// or an inline image with its media type.
type Part struct {
	// Text fragment, empty when the part carries an image.
	Text string

	// Inline image payload, nil when the part carries text.
	Inline *ImageAsset
}

// GenerationRequest is the assembled payload for one remote call: an ordered
// list of content parts plus an output configuration. The aspect ratio is
// deliberately kept out of Parts; it travels in the request's output config.
type GenerationRequest struct {
	Parts       []Part
	AspectRatio AspectRatio
	Model       string
}

// BuildRequest assembles a request from the prompt, an optional source image
// and the selected aspect ratio.
//
// Part ordering is significant to the downstream service contract: when a
// source image is present its part precedes the text part, always. The
// builder does not validate beyond what it is given; "image required in edit
// mode" is the studio's responsibility.
func BuildRequest(prompt string, source *ImageAsset, ratio AspectRatio) GenerationRequest {
	parts := make([]Part, 0, 2)
	if source != nil && !source.IsZero() {
		img := *source
		parts = append(parts, Part{Inline: &img})
	}
	parts = append(parts, Part{Text: prompt})

	if ratio == "" {
		ratio = AspectRatioDefault
	}

	return GenerationRequest{
		Parts:       parts,
		AspectRatio: ratio,
		Model:       DefaultModel,
	}
}

// SourceImage returns the request's inline image part, or nil when the
// request is a pure text-to-image generation.
func (r GenerationRequest) SourceImage() *ImageAsset {
	for _, p := range r.Parts {
		if p.Inline != nil {
			return p.Inline
		}
	}
	return nil
}

// Prompt returns the request's text part.
func (r GenerationRequest) Prompt() string {
	for _, p := range r.Parts {
		if p.Text != "" {
			return p.Text
		}
	}
	return ""
}
