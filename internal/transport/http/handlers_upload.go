package httptransport

import (
	"io"
	"net/http"
	"time"

	dErrors "secureeye/pkg/domain-errors"
	"secureeye/pkg/platform/httputil"
	"secureeye/pkg/requestcontext"
)

// maxUploadBytes bounds camera upload bodies. Cameras send single frames,
// not video; 20MB covers any still the fleet produces.
const maxUploadBytes = 20 << 20

type uploadResponse struct {
	Accepted bool   `json:"accepted"`
	ImageKey string `json:"image_key,omitempty"`
}

// HandleUpload handles POST /upload: a multipart form with an "img" file
// field and a camera_id header or form field, matching the device firmware's
// contract.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	deviceID := r.Header.Get("camera_id")

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "multipart form with an img file is required"))
		return
	}
	if deviceID == "" {
		deviceID = r.FormValue("camera_id")
	}

	file, _, err := r.FormFile("img")
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "img file field is required"))
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "could not read img file"))
		return
	}

	if deviceID != "" && !h.limiter.Allow(deviceID) {
		h.logger.WarnContext(ctx, "upload rate limited",
			"request_id", requestID,
			"device_id", deviceID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many uploads from this device"))
		return
	}

	h.logger.InfoContext(ctx, "upload received",
		"request_id", requestID,
		"device_id", deviceID,
		"content_length", r.ContentLength,
	)

	ctx = requestcontext.WithDeviceID(ctx, deviceID)
	receipt, err := h.ingestor.HandleUpload(ctx, deviceID, image)
	if err != nil {
		h.logger.ErrorContext(ctx, "upload rejected",
			"request_id", requestID,
			"device_id", deviceID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "upload accepted",
		"request_id", requestID,
		"device_id", deviceID,
		"image_key", receipt.Ref.Key,
		"person", receipt.Person,
		"notified", receipt.Notified,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, uploadResponse{
		Accepted: receipt.Accepted,
		ImageKey: receipt.Ref.Key,
	})
}
