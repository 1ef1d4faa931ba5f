package httptransport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"secureeye/internal/notify/telegram"
	dErrors "secureeye/pkg/domain-errors"
	"secureeye/pkg/platform/httputil"
	"secureeye/pkg/requestcontext"
)

const greeting = "Say Hi! to SecureEye!"

// HandleTelegramWebhook handles POST /telegram/webhook. Telegram retries
// non-2xx responses aggressively, so every processed update is acknowledged
// with 200 and failures are reported to the recipient in-chat instead.
func (h *Handler) HandleTelegramWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if h.webhookSecret != "" &&
		r.Header.Get("X-Telegram-Bot-Api-Secret-Token") != h.webhookSecret {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "not found"))
		return
	}

	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed update"))
		return
	}

	msg := update.Message
	if msg == nil {
		httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}
	chatID := strconv.FormatInt(msg.Chat.ID, 10)

	switch {
	case msg.Text == "/start":
		if err := h.bot.SendMessage(ctx, chatID, greeting); err != nil {
			h.logger.ErrorContext(ctx, "greeting reply failed",
				"request_id", requestID,
				"chat_id", chatID,
				"error", err,
			)
		}

	case msg.LargestPhoto() != "":
		h.handleRegistrationPhoto(r, chatID, msg.LargestPhoto())
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleRegistrationPhoto downloads the photo a recipient sent and runs the
// registration flow, replying in-chat with the outcome.
func (h *Handler) handleRegistrationPhoto(r *http.Request, chatID, fileID string) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	image, err := h.bot.DownloadFile(ctx, fileID)
	if err != nil {
		h.logger.ErrorContext(ctx, "registration photo download failed",
			"request_id", requestID,
			"chat_id", chatID,
			"error", err,
		)
		h.reply(r, chatID, "Could not fetch your photo. Please try again.")
		return
	}

	result, err := h.registrar.Register(ctx, chatID, image)
	if err != nil {
		h.logger.ErrorContext(ctx, "registration failed",
			"request_id", requestID,
			"chat_id", chatID,
			"error", err,
		)
		h.reply(r, chatID, "Registration is temporarily unavailable. Please try again.")
		return
	}

	h.reply(r, chatID, result.Message)
}

func (h *Handler) reply(r *http.Request, chatID, text string) {
	ctx := r.Context()
	if err := h.bot.SendMessage(ctx, chatID, text); err != nil {
		h.logger.ErrorContext(ctx, "webhook reply failed",
			"request_id", requestcontext.RequestID(ctx),
			"chat_id", chatID,
			"error", err,
		)
	}
}
