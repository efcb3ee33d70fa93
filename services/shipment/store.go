package shipment

import (
	"context"
	"io"
)

// ObjectStore keeps uploaded files and returns a public URL for them.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}
