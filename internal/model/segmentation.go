package model

import "context"

// Segmenter is the external background-removal engine: encoded image bytes
// in, encoded image bytes with the background stripped out, or an error.
type Segmenter interface {
	RemoveBackground(ctx context.Context, image []byte) ([]byte, error)
}
