package nanogen

// Preset is a named prompt shortcut. Applying a preset fills the prompt and
// forces GENERATE mode, since presets describe creating something new.
type Preset struct {
	Name        string      `json:"name"`
	Prompt      string      `json:"prompt"`
	AspectRatio AspectRatio `json:"aspectRatio,omitempty"`
}

// BuiltinPresets are the shortcuts the studio ships with. The banner preset
// is the original "Try example" prompt.
var BuiltinPresets = []Preset{
	{
		Name: "LinkedIn banner",
		Prompt: `Create a professional LinkedIn banner for Bravin Ouma and Teklini Technologies. ` +
			`Use a deep blue digital technology theme with soft glowing network lines and futuristic light effects. ` +
			`Place the Teklini Technologies logo clearly on the left side. ` +
			`Add the text on the right side with clean, modern typography: "The Future of Technology" as the main headline.`,
		AspectRatio: AspectRatio16x9,
	},
	{
		Name:        "Product shot",
		Prompt:      "A studio product photograph on a seamless white background, soft diffused lighting, subtle reflection, high detail.",
		AspectRatio: AspectRatio1x1,
	},
	{
		Name:        "Phone wallpaper",
		Prompt:      "An abstract gradient wallpaper in deep blues and purples with soft glowing particles, minimal, calming.",
		AspectRatio: AspectRatio9x16,
	},
}

// FindPreset returns the builtin preset with the given name.
func FindPreset(name string) (Preset, bool) {
	for _, p := range BuiltinPresets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
