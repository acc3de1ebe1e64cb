package model

import (
	"errors"
	"fmt"
	"strings"
)

// FieldKind is the closed enumeration of control kinds a settings field can
// take.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextarea FieldKind = "textarea"
	KindRichText FieldKind = "richtext"
	KindSelect   FieldKind = "select"
	KindRadio    FieldKind = "radio"
	KindCheckbox FieldKind = "checkbox"
)

// legacyRichText is the historical name of the rich text kind.
const legacyRichText = "wpeditor"

// Kinds lists every field kind in declaration order.
func Kinds() []FieldKind {
	return []FieldKind{KindText, KindTextarea, KindRichText, KindSelect, KindRadio, KindCheckbox}
}

// ErrUnknownKind is returned by ParseFieldKind for names outside the closed set.
var ErrUnknownKind = errors.New("model: unknown field kind")

// ParseFieldKind resolves a kind name. The empty string resolves to KindText.
func ParseFieldKind(name string) (FieldKind, error) {
	switch normalized := strings.ToLower(strings.TrimSpace(name)); normalized {
	case "":
		return KindText, nil
	case legacyRichText:
		return KindRichText, nil
	case string(KindText), string(KindTextarea), string(KindRichText),
		string(KindSelect), string(KindRadio), string(KindCheckbox):
		return FieldKind(normalized), nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownKind, name)
	}
}

// Valid reports whether k is one of the declared kinds.
func (k FieldKind) Valid() bool {
	switch k {
	case KindText, KindTextarea, KindRichText, KindSelect, KindRadio, KindCheckbox:
		return true
	}
	return false
}

// HasOptions reports whether the kind renders a choice list.
func (k FieldKind) HasOptions() bool {
	return k == KindSelect || k == KindRadio
}

// UnmarshalText lets YAML and JSON decoders accept legacy kind names.
func (k *FieldKind) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k FieldKind) String() string {
	return string(k)
}
