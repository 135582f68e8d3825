package output

import (
	"io"

	"github.com/darhnoel/xsql/query"
)

// Formatter defines the interface for result renderers.
//
// Implementers must provide Format to render a result set to the target
// format and SetOutput to change the output destination.
type Formatter interface {
	// Format renders the result set in the formatter's specific format
	Format(rs *query.ResultSet) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}
