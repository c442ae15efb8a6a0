// Package blob provides the file-upload capability behind venue images.
// The application only depends on the Store interface: hand in a file,
// get back the URL it will be served under.
package blob

import (
	"context"
	"io"
)

// Store uploads a file and returns the public URL for it.  filename is
// the client-supplied name; implementations use it only for the
// extension and pick their own object names.
type Store interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}
