// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them; services only read them, so
// services never import net/http for logging fields.
package requestcontext

import "context"

type (
	requestIDKey struct{}
	deviceIDKey  struct{}
)

// WithRequestID attaches the request id assigned by the transport layer.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID returns the request id, or empty when the context carries none.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}

// WithDeviceID attaches the uploading device id for downstream log fields.
func WithDeviceID(ctx context.Context, deviceID string) context.Context {
	return context.WithValue(ctx, deviceIDKey{}, deviceID)
}

// DeviceID returns the device id, or empty when the context carries none.
func DeviceID(ctx context.Context) string {
	v, _ := ctx.Value(deviceIDKey{}).(string)
	return v
}
