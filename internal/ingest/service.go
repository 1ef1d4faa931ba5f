package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"secureeye/internal/adapters/classify"
	"secureeye/internal/adapters/storage"
	"secureeye/internal/binding"
	"secureeye/internal/ingest/metrics"
	dErrors "secureeye/pkg/domain-errors"
	"secureeye/pkg/platform/sentinel"
)

// Receipt is the device-facing outcome of one upload. Accepted is true as
// soon as the image is durably stored; everything after storage is
// best-effort and never fails the upload.
type Receipt struct {
	Accepted bool
	Ref      storage.ImageRef
	Person   bool
	Notified bool

	// ClassifierFailed marks a partial success: the image is kept but no
	// verdict was obtained and no notification was attempted.
	ClassifierFailed bool
}

// Notifier hands off a qualifying detection for delivery.
type Notifier interface {
	Notify(ctx context.Context, recipientID string, ref storage.ImageRef) error
}

// Service is the ingestion pipeline: validate, store, classify, resolve the
// binding, notify. Storage is unconditional regardless of the verdict; the
// stored image is the audit trail and classification must not proceed
// without it.
type Service struct {
	images     storage.Store
	classifier classify.Classifier
	bindings   binding.Store
	notifier   Notifier
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// New constructs the ingestion service.
func New(images storage.Store, classifier classify.Classifier, bindings binding.Store, notifier Notifier, logger *slog.Logger, m *metrics.Metrics) (*Service, error) {
	if images == nil {
		return nil, fmt.Errorf("image store is required")
	}
	if classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	if bindings == nil {
		return nil, fmt.Errorf("binding store is required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	return &Service{
		images:     images,
		classifier: classifier,
		bindings:   bindings,
		notifier:   notifier,
		logger:     logger,
		metrics:    m,
	}, nil
}

// HandleUpload processes one device upload. Validation and storage failures
// fail the request; classification and notification failures do not.
func (s *Service) HandleUpload(ctx context.Context, deviceID string, image []byte) (Receipt, error) {
	if deviceID == "" {
		return Receipt{}, dErrors.New(dErrors.CodeBadRequest, "device id is required")
	}
	if len(image) == 0 {
		return Receipt{}, dErrors.New(dErrors.CodeBadRequest, "image payload is required")
	}

	storeStart := time.Now()
	ref, err := s.images.Put(ctx, image)
	s.metrics.ObserveStore(storeStart)
	if err != nil {
		s.logger.ErrorContext(ctx, "image storage failed",
			"device_id", deviceID,
			"error", err,
		)
		return Receipt{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "image storage unavailable")
	}
	s.metrics.IncrementUploads()

	receipt := Receipt{Accepted: true, Ref: ref}

	classifyStart := time.Now()
	verdict, err := s.classifier.Classify(ctx, image)
	s.metrics.ObserveClassify(classifyStart)
	if err != nil {
		// Partial success: the image is kept, but a failed classifier is not
		// a negative verdict, so no notification decision is made.
		s.metrics.IncrementClassifierFailures()
		s.logger.ErrorContext(ctx, "classification failed, image retained",
			"device_id", deviceID,
			"image_key", ref.Key,
			"error", err,
		)
		receipt.ClassifierFailed = true
		return receipt, nil
	}

	s.logger.InfoContext(ctx, "image classified",
		"device_id", deviceID,
		"image_key", ref.Key,
		"class_index", verdict.ClassIndex,
		"person", verdict.Person,
	)
	if !verdict.Person {
		return receipt, nil
	}
	receipt.Person = true
	s.metrics.IncrementPersonVerdicts()

	recipientID, err := s.bindings.Get(ctx, deviceID)
	if errors.Is(err, sentinel.ErrNotFound) {
		// Valid steady state for an as-yet-unregistered device.
		s.metrics.IncrementUnboundDetections()
		s.logger.InfoContext(ctx, "person detected on unbound device",
			"device_id", deviceID,
			"image_key", ref.Key,
		)
		return receipt, nil
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "binding lookup failed",
			"device_id", deviceID,
			"image_key", ref.Key,
			"error", err,
		)
		return receipt, nil
	}

	if err := s.notifier.Notify(ctx, recipientID, ref); err != nil {
		// Logged by the notifier; the upload is still accepted because the
		// image is already durably stored.
		return receipt, nil
	}
	receipt.Notified = true
	return receipt, nil
}
