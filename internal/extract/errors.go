package extract

import (
	"fmt"
	"strings"

	"github.com/hdbtools/vcxtract/internal/ui"
)

// DesyncError means the detail view's reported identity does not match the
// tree node believed selected. It is fatal for the whole run: continuing
// would silently attribute every subsequent read to the wrong node.
type DesyncError struct {
	Path     string
	NodeText string
	Reported string
}

func (e *DesyncError) Error() string {
	return fmt.Sprintf("desync at %q: tree node text %q but detail view reports %q",
		e.Path, e.NodeText, e.Reported)
}

// SchemaGapError means an encountered discriminator value has no known
// extraction branch. It is fatal and carries the form's currently visible
// field identifiers so the missing branch can be written.
type SchemaGapError struct {
	Form          string
	Discriminator string
	Value         string
	VisibleFields []string
}

func (e *SchemaGapError) Error() string {
	return fmt.Sprintf("no extraction branch for %s=%q on form %q; visible fields: %s",
		e.Discriminator, e.Value, e.Form, strings.Join(e.VisibleFields, ", "))
}

// schemaGap builds a SchemaGapError, dumping the form's visible fields.
// A failed dump still yields the error, just without field names.
func schemaGap(s ui.Surface, form, discriminator, value string) *SchemaGapError {
	fields, err := s.VisibleFields(form)
	if err != nil {
		fields = []string{fmt.Sprintf("<field dump failed: %v>", err)}
	}
	return &SchemaGapError{
		Form:          form,
		Discriminator: discriminator,
		Value:         value,
		VisibleFields: fields,
	}
}
