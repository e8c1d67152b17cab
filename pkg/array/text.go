package array

import (
	"fmt"

	"github.com/ssargent/embview/pkg/text"
	"github.com/ssargent/embview/pkg/view"
)

const (
	// indexEvery is how often single-line output repeats an explicit index.
	indexEvery = 8
	// previewWidth is the number of characters per preview comment line.
	previewWidth = 64
)

// WriteToTextStream renders the array as
//
//	{ [0]: a, b, c, d, e, f, g, h, [8]: i }
//
// on one line, or one "[i]: value" line per element in multiline mode.
// Multiline output with comments starts with a printable preview of the
// bytes when the elements are 8-bit integers.
func (v GenericView[E, T, S]) WriteToTextStream(out *text.OutputStream, opts text.Options) {
	elemOpts := opts.PlusOneIndent()
	count := v.ElementCount()

	out.Write("{")
	if opts.Multiline() {
		out.Write("\n")
		if opts.Comments() && v.isByteArray() {
			v.writePreview(out, elemOpts, count)
		}
	}
	for i := 0; i < count; i++ {
		if opts.Multiline() {
			out.Write(elemOpts.CurrentIndent())
		} else {
			if i > 0 {
				out.Write(",")
			}
			out.Write(" ")
		}
		if opts.Multiline() || i%indexEvery == 0 {
			out.Write("[")
			out.Write(text.FormatUint(uint64(i), opts.NumericBase(), false))
			out.Write("]: ")
		}
		v.writeElement(out, i, elemOpts)
		if opts.Multiline() {
			out.Write("\n")
		}
	}
	if opts.Multiline() {
		out.Write(opts.CurrentIndent())
		out.Write("}")
	} else {
		out.Write(" }")
	}
}

func (v GenericView[E, T, S]) isByteArray() bool {
	if v.ElementCount() == 0 {
		return false
	}
	e, ok := any(v.ElementAt(0)).(view.Integral)
	return ok && e.SizeInBits() == 8
}

func (v GenericView[E, T, S]) writePreview(out *text.OutputStream, opts text.Options, count int) {
	line := make([]byte, 0, previewWidth)
	for start := 0; start < count; start += previewWidth {
		line = line[:0]
		for i := start; i < count && i < start+previewWidth; i++ {
			c := byte(any(v.ElementAt(i)).(view.Integral).UncheckedReadUInt())
			if c < 0x20 || c > 0x7e {
				c = '.'
			}
			line = append(line, c)
		}
		out.Write(opts.CurrentIndent())
		out.Write("# ")
		out.Write(string(line))
		out.Write("\n")
	}
}

func (v GenericView[E, T, S]) writeElement(out *text.OutputStream, i int, opts text.Options) {
	e := v.ElementAt(i)
	if w, ok := any(e).(text.Writer); ok {
		w.WriteToTextStream(out, opts)
		return
	}
	out.Write(fmt.Sprint(e.UncheckedRead()))
}

// UpdateFromTextStream parses
//
//	{ [index]: value, value, ... }
//
// Elements without an index go to the position after the previous element.
// A trailing comma is allowed, and the comma before an indexed element may
// be left out, as in multiline output. Elements are written as they are parsed, so
// a failure can leave earlier elements updated.
func (v GenericView[E, T, S]) UpdateFromTextStream(in *text.InputStream) bool {
	if in.Read() != "{" {
		return false
	}
	var index uint64
	tk := in.Read()
	for tk != "}" {
		if tk == "[" {
			i, ok := text.DecodeUint(in.Read())
			if !ok {
				return false
			}
			if in.Read() != "]" || in.Read() != ":" {
				return false
			}
			index = i
			tk = in.Read()
		}
		if index >= uint64(v.ElementCount()) {
			return false
		}
		u, ok := any(v.ElementAt(int(index))).(text.Updater)
		if !ok {
			return false
		}
		in.Unread(tk)
		if !u.UpdateFromTextStream(in) {
			return false
		}
		index++
		tk = in.Read()
		if tk == "}" {
			break
		}
		if tk == "[" {
			// Multiline output separates indexed elements by line only.
			continue
		}
		if tk != "," {
			return false
		}
		tk = in.Read()
	}
	return true
}
