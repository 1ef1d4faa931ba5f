package qrdecode

import "context"

// Decoder extracts a device id from a QR code in an image. "No QR found" is
// an expected outcome, not an error: found reports it, and err is reserved
// for genuine adapter failures (network, decoder crash, timeout).
type Decoder interface {
	Decode(ctx context.Context, image []byte) (deviceID string, found bool, err error)
}
