package extract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hdbtools/vcxtract/internal/ui"
)

// formReader reads a fixed set of named fields off one form with a sticky
// error, so parser branches stay a flat sequence of field reads. The first
// failure wins; later reads return zero values.
type formReader struct {
	s    ui.Surface
	form string
	err  error
}

func newFormReader(s ui.Surface, form string) *formReader {
	return &formReader{s: s, form: form}
}

func (r *formReader) Err() error { return r.err }

func (r *formReader) fail(field string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%s/%s: %w", r.form, field, err)
	}
}

func (r *formReader) text(field string) string {
	if r.err != nil {
		return ""
	}
	t, err := r.s.ReadText(r.form, field)
	if err != nil {
		r.fail(field, err)
		return ""
	}
	return t
}

func (r *formReader) trimmed(field string) string {
	return strings.TrimSpace(r.text(field))
}

func (r *formReader) checked(field string) bool {
	if r.err != nil {
		return false
	}
	st, err := r.s.ReadCheck(r.form, field)
	if err != nil {
		r.fail(field, err)
		return false
	}
	return st == ui.Checked
}

func (r *formReader) intval(field string) int {
	raw := r.trimmed(field)
	if r.err != nil {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		r.fail(field, fmt.Errorf("not an integer: %q", raw))
		return 0
	}
	return n
}

// optInt reads an integer field that may legitimately be blank.
func (r *formReader) optInt(field string) *int {
	raw := r.trimmed(field)
	if r.err != nil || raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		r.fail(field, fmt.Errorf("not an integer: %q", raw))
		return nil
	}
	return &n
}

// optText reads a text field, mapping the empty string to nil.
func (r *formReader) optText(field string) *string {
	t := r.text(field)
	if r.err != nil || t == "" {
		return nil
	}
	return &t
}

// items reads a list box, dropping empty entries the way the authoring
// tool pads its list controls.
func (r *formReader) items(field string) []string {
	if r.err != nil {
		return nil
	}
	raw, err := r.s.ListItems(r.form, field)
	if err != nil {
		r.fail(field, err)
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (r *formReader) click(field string) {
	if r.err != nil {
		return
	}
	if err := r.s.Click(r.form, field); err != nil {
		r.fail(field, err)
	}
}
