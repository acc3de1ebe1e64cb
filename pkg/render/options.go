package render

// RenderOptions describe per-request data that renderers use without
// changing the page itself.
type RenderOptions struct {
	// Values overrides the displayed value of fields by name, e.g. to echo a
	// rejected submission.
	Values map[string]string
	// Hidden inputs added to the form (nonce, referer).
	Hidden map[string]string
	// Notices are shown above the form.
	Notices []Notice
	// Theme and Variant select a registered theme for this render.
	Theme   string
	Variant string
}
