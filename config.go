package nanogen

// Mode selects how the studio treats user input: GENERATE creates a new
// image from the prompt alone, EDIT requires a source image and applies the
// prompt as an instruction against it.
type Mode string

const (
	ModeGenerate Mode = "GENERATE"
	ModeEdit     Mode = "EDIT"
)

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m == ModeGenerate || m == ModeEdit
}

// String returns the mode identifier.
func (m Mode) String() string {
	return string(m)
}

// AspectRatio represents the aspect ratio for generated images.
type AspectRatio string

const (
	AspectRatio1x1  AspectRatio = "1:1"
	AspectRatio16x9 AspectRatio = "16:9"
	AspectRatio9x16 AspectRatio = "9:16"
	AspectRatio4x3  AspectRatio = "4:3"
	AspectRatio3x4  AspectRatio = "3:4"

	// AspectRatioDefault is applied when the user has made no selection.
	AspectRatioDefault = AspectRatio1x1
)

// SupportedAspectRatios lists the output shapes the studio offers, in the
// order the selector presents them.
var SupportedAspectRatios = []AspectRatio{
	AspectRatio1x1,
	AspectRatio16x9,
	AspectRatio9x16,
	AspectRatio4x3,
	AspectRatio3x4,
}

// Valid reports whether a is one of the supported output shapes.
func (a AspectRatio) Valid() bool {
	for _, r := range SupportedAspectRatios {
		if a == r {
			return true
		}
	}
	return false
}

// String returns the string representation for API calls.
func (a AspectRatio) String() string {
	return string(a)
}

// DefaultModel is the remote model used when the configuration names none.
// Gemini 2.5 Flash Image is the nano-banana image model this studio was
// built around.
const DefaultModel = "gemini-2.5-flash-image"
