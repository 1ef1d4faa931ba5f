package registration

import (
	"context"
	"fmt"
	"log/slog"

	"secureeye/internal/adapters/qrdecode"
	"secureeye/internal/binding"
	"secureeye/internal/registration/metrics"
	dErrors "secureeye/pkg/domain-errors"
)

// User-visible reply texts for registration outcomes.
const (
	MessageRegistered   = "Successfully registered your camera!"
	MessageDecodeFailed = "Could not decode QR code. Please try again."
)

// Result is the outcome of one registration attempt.
type Result struct {
	Registered bool
	DeviceID   string
	Message    string
}

// Service consumes a recipient-originated photo, decodes it for a device id,
// and on success binds the device to the recipient. Re-registering a device
// always wins: last writer takes the binding, with no ownership check.
type Service struct {
	decoder  qrdecode.Decoder
	bindings binding.Store
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// New constructs the registration service.
func New(decoder qrdecode.Decoder, bindings binding.Store, logger *slog.Logger, m *metrics.Metrics) (*Service, error) {
	if decoder == nil {
		return nil, fmt.Errorf("qr decoder is required")
	}
	if bindings == nil {
		return nil, fmt.Errorf("binding store is required")
	}
	return &Service{
		decoder:  decoder,
		bindings: bindings,
		logger:   logger,
		metrics:  m,
	}, nil
}

// Register handles one registration photo from recipientID. A photo with no
// readable QR code is a normal outcome reported in the Result, not an error;
// errors are reserved for adapter and store failures.
func (s *Service) Register(ctx context.Context, recipientID string, image []byte) (Result, error) {
	if recipientID == "" {
		return Result{}, dErrors.New(dErrors.CodeBadRequest, "recipient id is required")
	}
	if len(image) == 0 {
		return Result{}, dErrors.New(dErrors.CodeBadRequest, "image payload is required")
	}

	deviceID, found, err := s.decoder.Decode(ctx, image)
	if err != nil {
		s.metrics.IncrementDecodeFailures()
		s.logger.ErrorContext(ctx, "qr decode failed",
			"recipient_id", recipientID,
			"error", err,
		)
		return Result{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "qr decoder unavailable")
	}
	if !found {
		s.metrics.IncrementDecodeMisses()
		s.logger.InfoContext(ctx, "no qr code in registration photo",
			"recipient_id", recipientID,
		)
		return Result{Registered: false, Message: MessageDecodeFailed}, nil
	}

	if err := s.bindings.Put(ctx, deviceID, recipientID); err != nil {
		s.logger.ErrorContext(ctx, "binding store put failed",
			"recipient_id", recipientID,
			"device_id", deviceID,
			"error", err,
		)
		return Result{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "binding store unavailable")
	}

	s.metrics.IncrementRegistrations()
	s.logger.InfoContext(ctx, "device registered",
		"recipient_id", recipientID,
		"device_id", deviceID,
	)
	return Result{Registered: true, DeviceID: deviceID, Message: MessageRegistered}, nil
}
