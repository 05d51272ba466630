package render

import "github.com/emberpost/emberpost/pkg/errors"

// Template selects one of the three fixed visual styles.
type Template int

const (
	// TemplateBasic draws header/footer/accent bars over the configured
	// background with shadowed title text.
	TemplateBasic Template = iota

	// TemplateGradient draws outlined text over a burnt-orange to cream
	// vertical gradient softened by a white overlay.
	TemplateGradient

	// TemplateMinimal draws left-aligned text between two thin accent bars
	// on a white canvas.
	TemplateMinimal
)

// templateNames maps templates to their canonical names.
var templateNames = map[Template]string{
	TemplateBasic:    "basic",
	TemplateGradient: "gradient",
	TemplateMinimal:  "minimal",
}

// String returns the canonical template name.
func (t Template) String() string {
	if name, ok := templateNames[t]; ok {
		return name
	}
	return "basic"
}

// ParseTemplate parses a template name. The empty string defaults to basic.
func ParseTemplate(s string) (Template, error) {
	switch s {
	case "", "basic":
		return TemplateBasic, nil
	case "gradient":
		return TemplateGradient, nil
	case "minimal":
		return TemplateMinimal, nil
	default:
		return TemplateBasic, errors.New(errors.ErrCodeInvalidTemplate, "unknown template: %q (must be 'basic', 'gradient', or 'minimal')", s)
	}
}

// Templates returns all templates in canonical order.
func Templates() []Template {
	return []Template{TemplateBasic, TemplateGradient, TemplateMinimal}
}
