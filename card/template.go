package card

import "sort"

// Template names.
const (
	TemplateDefault  = "default"
	TemplateReadwise = "readwise"
	TemplateKindle   = "kindle"
	TemplateNotion   = "notion"
)

// Template is a named preset of recommended size and typography.
type Template struct {
	Name string
	Size Size
	// WantsImage marks templates that look best over a background image.
	WantsImage bool
	Style      TextStyle
}

var templates = map[string]Template{
	TemplateDefault: {
		Name: TemplateDefault,
		Size: Size{Width: 400, Height: 600},
		Style: TextStyle{
			FontFamily: "'Noto Sans KR', sans-serif",
			FontSize:   16,
			Color:      "#000000",
			Align:      AlignCenter,
			LineHeight: 1.6,
		},
	},
	TemplateReadwise: {
		Name: TemplateReadwise,
		Size: Size{Width: 500, Height: 700},
		Style: TextStyle{
			FontFamily: "'Crimson Text', Georgia, serif",
			FontSize:   24,
			Color:      "#2C2C2C",
			Align:      AlignCenter,
			LineHeight: 1.6,
		},
	},
	TemplateKindle: {
		Name:       TemplateKindle,
		Size:       Size{Width: 450, Height: 650},
		WantsImage: true,
		Style: TextStyle{
			FontFamily: "'Bookerly', 'Palatino', serif",
			FontSize:   18,
			Color:      "#1a1a1a",
			Align:      AlignLeft,
			LineHeight: 1.7,
		},
	},
	TemplateNotion: {
		Name: TemplateNotion,
		Size: Size{Width: 400, Height: 600},
		Style: TextStyle{
			FontFamily: "'Noto Sans KR', sans-serif",
			FontSize:   16,
			Color:      "#2d3748",
			Align:      AlignLeft,
			LineHeight: 1.6,
		},
	},
}

// LookupTemplate returns the preset registered under name.
func LookupTemplate(name string) (Template, bool) {
	t, ok := templates[name]
	return t, ok
}

// TemplateNames lists the registered presets in stable order.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
