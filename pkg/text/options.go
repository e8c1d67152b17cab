package text

// Options controls how views render themselves as text. Options is a value
// type; the With methods return modified copies.
type Options struct {
	multiline     bool
	comments      bool
	digitGrouping bool
	indent        string
	currentIndent string
	numericBase   int
}

// DefaultOptions renders on one line, in decimal, without comments.
func DefaultOptions() Options {
	return Options{indent: "  ", numericBase: 10}
}

// MultilineText renders one element per line with comments.
func MultilineText() Options {
	return DefaultOptions().WithMultiline(true).WithComments(true)
}

func (o Options) WithMultiline(multiline bool) Options {
	o.multiline = multiline
	return o
}

func (o Options) WithComments(comments bool) Options {
	o.comments = comments
	return o
}

// WithIndent sets the text added per nesting level.
func (o Options) WithIndent(indent string) Options {
	o.indent = indent
	return o
}

// WithNumericBase sets the base of the primary representation of numbers.
// Only 2, 10 and 16 are meaningful; anything else renders in decimal.
func (o Options) WithNumericBase(base int) Options {
	o.numericBase = base
	return o
}

// WithDigitGrouping separates digit groups with underscores.
func (o Options) WithDigitGrouping(grouping bool) Options {
	o.digitGrouping = grouping
	return o
}

// PlusOneIndent returns the options for a nested value.
func (o Options) PlusOneIndent() Options {
	o.currentIndent += o.indent
	return o
}

func (o Options) Multiline() bool { return o.multiline }

func (o Options) Comments() bool { return o.comments }

func (o Options) DigitGrouping() bool { return o.digitGrouping }

func (o Options) Indent() string { return o.indent }

func (o Options) CurrentIndent() string { return o.currentIndent }

func (o Options) NumericBase() int {
	switch o.numericBase {
	case 2, 16:
		return o.numericBase
	default:
		return 10
	}
}
