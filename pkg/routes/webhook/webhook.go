package webhook

import (
	stdcontext "context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/waqas1412/ReAgentWABot-sub001/internal/services/user"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/context"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/dedup"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/intent"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/models"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/whatsapp"
)

// Register registers webhook routes
func Register(g *echo.Group) {
	g.POST("/webhook", HandleInbound)
}

// InboundPayload is the provider's webhook delivery format.
type InboundPayload struct {
	MessageID        string `json:"message_id"`
	From             string `json:"from" validate:"required"`
	ProfileName      string `json:"profile_name"`
	Body             string `json:"body"`
	NumMedia         int    `json:"num_media"`
	MediaURL         string `json:"media_url"`
	MediaContentType string `json:"media_content_type"`
}

// InboundResult acknowledges a delivery and echoes what was replied.
type InboundResult struct {
	Status            string `json:"status"`
	ReplyMessageID    string `json:"reply_message_id,omitempty"`
	Reply             string `json:"reply,omitempty"`
	DuplicateDelivery bool   `json:"duplicate_delivery,omitempty"`
}

// HandleInbound processes one provider delivery: dedup, user resolution,
// intent routing, and the outbound reply. Every non-duplicate delivery gets
// a reply, even when a downstream dependency fails.
func HandleInbound(c echo.Context) error {
	ctx := c.Request().Context()

	var payload InboundPayload
	if err := c.Bind(&payload); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if payload.From == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "from is required")
	}

	ctx = context.SetPhoneNumber(ctx, payload.From)

	ctx, deduper, err := ectoinject.GetContext[dedup.Deduper](ctx)
	if err == nil && deduper != nil && deduper.Seen(ctx, payload.MessageID) {
		return c.JSON(http.StatusOK, InboundResult{Status: "ignored", DuplicateDelivery: true})
	}

	ctx, logger, _ := ectoinject.GetContext[ectologger.Logger](ctx)

	ctx, router, err := ectoinject.GetContext[*intent.Router](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	ctx, sender, err := ectoinject.GetContext[whatsapp.Sender](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	msg := models.InboundMessage{
		Text:             payload.Body,
		SenderID:         payload.From,
		SenderName:       payload.ProfileName,
		MessageID:        payload.MessageID,
		MediaCount:       payload.NumMedia,
		MediaURL:         payload.MediaURL,
		MediaContentType: payload.MediaContentType,
	}

	resp := resolveAndRoute(ctx, router, msg, logger)

	replyID, err := sender.SendResponse(ctx, payload.From, resp)
	if err != nil {
		if logger != nil {
			logger.WithContext(ctx).WithError(err).Error("failed to deliver reply")
		}
		// The provider retries on non-2xx; dedup already claimed this id, so
		// report the failure instead of provoking a retry loop.
		return c.JSON(http.StatusOK, InboundResult{Status: "reply_failed"})
	}

	return c.JSON(http.StatusOK, InboundResult{
		Status:         "replied",
		ReplyMessageID: replyID,
		Reply:          resp.Content,
	})
}

const apologyText = "😔 Sorry, something went wrong on our side. Please try again in a moment."

// resolveAndRoute looks up or creates the sender and dispatches the message.
// It never returns nil: a user resolution failure degrades to an apology so
// the sender still gets an answer.
func resolveAndRoute(ctx stdcontext.Context, router *intent.Router, msg models.InboundMessage, logger ectologger.Logger) *models.Response {
	ctx, users, err := ectoinject.GetContext[*user.Service](ctx)
	if err != nil {
		if logger != nil {
			logger.WithContext(ctx).WithError(err).Error("failed to get user service")
		}
		return models.TextResponse(apologyText)
	}

	var name *string
	if msg.SenderName != "" {
		name = &msg.SenderName
	}
	sender, err := users.GetOrCreateUser(ctx, msg.SenderID, name)
	if err != nil {
		if logger != nil {
			logger.WithContext(ctx).WithError(err).Error("failed to resolve sender")
		}
		return models.TextResponse(apologyText)
	}

	return router.Route(ctx, msg, sender)
}
