package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"secureeye/internal/adapters/classify"
	"secureeye/internal/adapters/storage"
	"secureeye/internal/binding/store"
	dErrors "secureeye/pkg/domain-errors"
	"secureeye/pkg/platform/sentinel"
)

type fakeImageStore struct {
	puts [][]byte
	err  error
}

func (f *fakeImageStore) Put(ctx context.Context, data []byte) (storage.ImageRef, error) {
	if f.err != nil {
		return storage.ImageRef{}, f.err
	}
	f.puts = append(f.puts, data)
	return storage.ImageRef{Key: fmt.Sprintf("img-%d.png", len(f.puts))}, nil
}

func (f *fakeImageStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, sentinel.ErrNotFound
}

type stubClassifier struct {
	verdict classify.Verdict
	err     error
}

func (c *stubClassifier) Classify(ctx context.Context, image []byte) (classify.Verdict, error) {
	return c.verdict, c.err
}

type fakeNotifier struct {
	calls []notifyCall
	err   error
}

type notifyCall struct {
	recipientID string
	ref         storage.ImageRef
}

func (f *fakeNotifier) Notify(ctx context.Context, recipientID string, ref storage.ImageRef) error {
	f.calls = append(f.calls, notifyCall{recipientID, ref})
	return f.err
}

func personVerdict() classify.Verdict {
	return classify.Verdict{ClassIndex: 1, Person: true, Scores: []float32{0.2, 0.8}}
}

func emptyVerdict() classify.Verdict {
	return classify.Verdict{ClassIndex: 0, Person: false, Scores: []float32{0.9, 0.1}}
}

type IngestServiceSuite struct {
	suite.Suite
	images     *fakeImageStore
	classifier *stubClassifier
	bindings   *store.InMemory
	notifier   *fakeNotifier
	ctx        context.Context
}

func TestIngestServiceSuite(t *testing.T) {
	suite.Run(t, new(IngestServiceSuite))
}

func (s *IngestServiceSuite) SetupTest() {
	s.images = &fakeImageStore{}
	s.classifier = &stubClassifier{verdict: emptyVerdict()}
	s.bindings = store.NewInMemory()
	s.notifier = &fakeNotifier{}
	s.ctx = context.Background()
}

func (s *IngestServiceSuite) newService() *Service {
	svc, err := New(s.images, s.classifier, s.bindings, s.notifier,
		slog.New(slog.DiscardHandler), nil)
	s.Require().NoError(err)
	return svc
}

func (s *IngestServiceSuite) TestValidation() {
	svc := s.newService()

	_, err := svc.HandleUpload(s.ctx, "", []byte("img"))
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))

	_, err = svc.HandleUpload(s.ctx, "cam-42", nil)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))

	s.Empty(s.images.puts, "rejected uploads must have no side effects")
	s.Empty(s.notifier.calls)
}

func (s *IngestServiceSuite) TestNegativeVerdictStoresButDoesNotNotify() {
	s.classifier.verdict = emptyVerdict()
	s.Require().NoError(s.bindings.Put(s.ctx, "cam-42", "chat-7"))
	svc := s.newService()

	receipt, err := svc.HandleUpload(s.ctx, "cam-42", []byte("empty room"))
	s.Require().NoError(err)
	s.True(receipt.Accepted)
	s.False(receipt.Person)
	s.False(receipt.Notified)

	s.Len(s.images.puts, 1, "image persisted exactly once regardless of verdict")
	s.Empty(s.notifier.calls)
}

func (s *IngestServiceSuite) TestUnboundDeviceYieldsNoNotification() {
	s.classifier.verdict = personVerdict()
	svc := s.newService()

	receipt, err := svc.HandleUpload(s.ctx, "cam-42", []byte("person photo"))
	s.Require().NoError(err)
	s.True(receipt.Accepted)
	s.True(receipt.Person)
	s.False(receipt.Notified)

	s.Len(s.images.puts, 1)
	s.Empty(s.notifier.calls, "no recipient to notify is a valid steady state")
}

func (s *IngestServiceSuite) TestBoundDeviceGetsExactlyOneNotification() {
	s.classifier.verdict = personVerdict()
	s.Require().NoError(s.bindings.Put(s.ctx, "cam-42", "chat-7"))
	svc := s.newService()

	receipt, err := svc.HandleUpload(s.ctx, "cam-42", []byte("person photo"))
	s.Require().NoError(err)
	s.True(receipt.Accepted)
	s.True(receipt.Notified)

	s.Require().Len(s.notifier.calls, 1)
	s.Equal("chat-7", s.notifier.calls[0].recipientID)
	s.Equal(receipt.Ref, s.notifier.calls[0].ref)
}

func (s *IngestServiceSuite) TestStorageFailureIsFatal() {
	s.images.err = sentinel.ErrUnavailable
	s.classifier.verdict = personVerdict()
	s.Require().NoError(s.bindings.Put(s.ctx, "cam-42", "chat-7"))
	svc := s.newService()

	_, err := svc.HandleUpload(s.ctx, "cam-42", []byte("person photo"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.Empty(s.notifier.calls, "classification and notification must not proceed without storage")
}

func (s *IngestServiceSuite) TestClassifierFailureRetainsImage() {
	s.classifier.err = errors.New("inference timeout")
	s.Require().NoError(s.bindings.Put(s.ctx, "cam-42", "chat-7"))
	svc := s.newService()

	receipt, err := svc.HandleUpload(s.ctx, "cam-42", []byte("person photo"))
	s.Require().NoError(err, "classifier failure never fails the upload")
	s.True(receipt.Accepted)
	s.True(receipt.ClassifierFailed)
	s.False(receipt.Notified)

	s.Len(s.images.puts, 1, "already-stored image is retained")
	s.Empty(s.notifier.calls, "a failed classifier is not a negative verdict either way")
}

func (s *IngestServiceSuite) TestNotificationFailureDoesNotRollBackStorage() {
	s.classifier.verdict = personVerdict()
	s.notifier.err = errors.New("telegram down")
	s.Require().NoError(s.bindings.Put(s.ctx, "cam-42", "chat-7"))
	svc := s.newService()

	receipt, err := svc.HandleUpload(s.ctx, "cam-42", []byte("person photo"))
	s.Require().NoError(err)
	s.True(receipt.Accepted, "upload still reported accepted")
	s.False(receipt.Notified)

	s.Len(s.images.puts, 1)
	s.Len(s.notifier.calls, 1, "one attempt, no retry")
}

func (s *IngestServiceSuite) TestBindingLookupFailureStillAccepted() {
	s.classifier.verdict = personVerdict()
	svc, err := New(s.images, s.classifier, unavailableStore{}, s.notifier,
		slog.New(slog.DiscardHandler), nil)
	s.Require().NoError(err)

	receipt, err := svc.HandleUpload(s.ctx, "cam-42", []byte("person photo"))
	s.Require().NoError(err)
	s.True(receipt.Accepted)
	s.Empty(s.notifier.calls)
}

type unavailableStore struct{}

func (unavailableStore) Put(ctx context.Context, deviceID, recipientID string) error {
	return sentinel.ErrUnavailable
}

func (unavailableStore) Get(ctx context.Context, deviceID string) (string, error) {
	return "", sentinel.ErrUnavailable
}
