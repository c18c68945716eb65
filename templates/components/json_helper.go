package components

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// JSON marshals an object to a JSON string, returning "{}" on error.
// encoding/json escapes <, > and &, so the result is safe inside a script element.
func JSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// JSONScript renders v as an inert application/json script element.
// A value that cannot be marshaled fails the render.
func JSONScript(id string, v interface{}) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", id, err)
		}
		_, err = fmt.Fprintf(w, `<script type="application/json" id="%s">%s</script>`, templ.EscapeString(id), b)
		return err
	})
}
