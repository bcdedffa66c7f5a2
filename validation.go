package nanogen

import (
	"fmt"
	"strings"
)

// Image size limit for source uploads (matches the Gemini inline-data cap).
const MaxSourceImageSize = 20 * 1024 * 1024

// ValidatePrompt validates a text prompt. Whitespace-only prompts are
// treated as empty.
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return ErrEmptyPrompt
	}
	return nil
}

// ValidateSourceImage checks that a source image is present and usable for
// the given mode. In GENERATE mode a source image is optional and ignored;
// in EDIT mode its absence is a validation failure caught before any remote
// call.
func ValidateSourceImage(mode Mode, source *ImageAsset) error {
	if mode != ModeEdit {
		return nil
	}
	if source == nil || source.IsZero() {
		return ErrMissingSourceImage
	}
	if !strings.HasPrefix(source.MIMEType, "image/") {
		return fmt.Errorf("%w: %q", ErrInvalidFileType, source.MIMEType)
	}
	return nil
}
