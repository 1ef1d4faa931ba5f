package classify

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"secureeye/internal/platform/config"
	"secureeye/pkg/platform/sentinel"
)

// HTTPClassifier calls an external inference service that returns a score
// vector over a fixed, pre-agreed label set. The service owns the model and
// preprocessing; this adapter owns the argmax and the person-class
// convention.
type HTTPClassifier struct {
	http        *resty.Client
	personClass int
}

type classifyResponse struct {
	Scores []float32 `json:"scores"`
}

// NewHTTP builds the inference client.
func NewHTTP(cfg config.ClassifierConfig) *HTTPClassifier {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/octet-stream")

	return &HTTPClassifier{
		http:        client,
		personClass: cfg.PersonClass,
	}
}

// Classify posts the image bytes and argmaxes the returned scores.
func (c *HTTPClassifier) Classify(ctx context.Context, image []byte) (Verdict, error) {
	var out classifyResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(image).
		SetResult(&out).
		Post("/classify")
	if err != nil {
		return Verdict{}, fmt.Errorf("classifier call: %v: %w", err, sentinel.ErrUnavailable)
	}
	if resp.IsError() {
		return Verdict{}, fmt.Errorf("classifier returned %d: %w", resp.StatusCode(), sentinel.ErrUnavailable)
	}
	if len(out.Scores) == 0 {
		return Verdict{}, fmt.Errorf("classifier returned no scores: %w", sentinel.ErrUnavailable)
	}
	return VerdictFrom(out.Scores, c.personClass), nil
}
