package nanogen

import "time"

// GenerationResult is one successful outcome of the orchestration flow.
// Immutable once created.
type GenerationResult struct {
	// ImageURL is the renderable reference to the generated image, a
	// data-URL produced by ImageAsset.DataURL.
	ImageURL string `json:"imageUrl"`

	// Prompt is the text that produced the image.
	Prompt string `json:"prompt"`

	// Timestamp is the creation instant.
	Timestamp time.Time `json:"timestamp"`
}

// HistoryItem extends GenerationResult with the identity and settings under
// which it was produced.
type HistoryItem struct {
	GenerationResult

	// ID is unique within the ledger, derived from the creation time.
	ID string `json:"id"`

	// Mode active when the request was dispatched.
	Mode Mode `json:"mode"`

	// AspectRatio requested for the output.
	AspectRatio AspectRatio `json:"aspectRatio"`
}
