// Package text implements the human-readable format views are written in
// and parsed from.
//
// Arrays render as a braced, comma-separated list with optional explicit
// indices:
//
//	{ [0]: 1, 2, 3, [8]: 9 }
//
// Integers accept decimal, 0x-hex and 0b-binary literals with optional '_'
// separators, and '#' starts a comment that runs to the end of the line.
package text

// Writer is implemented by views that can render themselves.
type Writer interface {
	WriteToTextStream(out *OutputStream, opts Options)
}

// Updater is implemented by views that can be updated from text.
type Updater interface {
	UpdateFromTextStream(in *InputStream) bool
}

// WriteToString renders v with opts, or with DefaultOptions when none are
// given.
func WriteToString(v Writer, opts ...Options) string {
	o := DefaultOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	var out OutputStream
	v.WriteToTextStream(&out, o)
	return out.String()
}

// UpdateFromText parses s into v. Text after the value is ignored. Updates
// are applied as parsing proceeds, so a false return may leave v partially
// updated.
func UpdateFromText(v Updater, s string) bool {
	return v.UpdateFromTextStream(NewInputStream(s))
}
