package components

import "github.com/goliatone/go-admincustomizer/pkg/model"

// Theme partial keys of the built-in components. A theme manifest may map
// any of them onto its own template.
const (
	PartialText     = "forms.text"
	PartialTextarea = "forms.textarea"
	PartialRichText = "forms.richtext"
	PartialSelect   = "forms.select"
	PartialRadio    = "forms.radio"
	PartialCheckbox = "forms.checkbox"
)

// PartialKey returns the theme partial key rendering kind.
func PartialKey(kind model.FieldKind) string {
	switch kind {
	case model.KindText:
		return PartialText
	case model.KindTextarea:
		return PartialTextarea
	case model.KindRichText:
		return PartialRichText
	case model.KindSelect:
		return PartialSelect
	case model.KindRadio:
		return PartialRadio
	case model.KindCheckbox:
		return PartialCheckbox
	default:
		panic("components: unhandled field kind " + string(kind))
	}
}
