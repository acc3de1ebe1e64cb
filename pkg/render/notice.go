package render

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// NoticeKind selects the admin notice style.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeWarning NoticeKind = "warning"
	NoticeInfo    NoticeKind = "info"
)

// Notice is a message shown above the settings form.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// SavedNotice is shown after a successful submit.
var SavedNotice = Notice{Kind: NoticeSuccess, Message: "Settings saved."}

// NoticeFromError maps a save failure onto a notice. Validation failures keep
// their message; store failures are reported generically.
func NoticeFromError(err error) Notice {
	switch {
	case err == nil:
		return Notice{}
	case goerrors.IsCategory(err, goerrors.CategoryValidation):
		return Notice{Kind: NoticeError, Message: err.Error()}
	case goerrors.IsCategory(err, goerrors.CategoryCommand):
		return Notice{Kind: NoticeError, Message: "Settings could not be saved. Please try again."}
	default:
		return Notice{Kind: NoticeError, Message: "Unexpected error: " + err.Error()}
	}
}

// MergeNotices concatenates notices, dropping empty messages and exact
// duplicates while preserving order.
func MergeNotices(existing []Notice, extras ...Notice) []Notice {
	out := make([]Notice, 0, len(existing)+len(extras))
	seen := make(map[Notice]struct{}, len(existing)+len(extras))
	for _, notice := range append(append([]Notice(nil), existing...), extras...) {
		notice.Message = strings.TrimSpace(notice.Message)
		if notice.Message == "" {
			continue
		}
		if notice.Kind == "" {
			notice.Kind = NoticeInfo
		}
		if _, dup := seen[notice]; dup {
			continue
		}
		seen[notice] = struct{}{}
		out = append(out, notice)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
