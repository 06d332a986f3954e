package message

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/waqas1412/ReAgentWABot-sub001/pkg/models"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/whatsapp"
)

var validate = validator.New()

// Register registers direct-send message routes
func Register(g *echo.Group) {
	g.POST("/messages", SendMessage)
}

// SendMessage delivers an operator-initiated message outside the webhook
// reply path.
func SendMessage(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, sender, err := ectoinject.GetContext[whatsapp.Sender](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	var messageID string
	if req.MediaURL != "" {
		messageID, err = sender.SendMedia(ctx, req.To, req.Text, req.MediaURL)
	} else {
		messageID, err = sender.SendText(ctx, req.To, req.Text)
	}
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadGateway, "failed to deliver message")
	}

	ctx, logger, _ := ectoinject.GetContext[ectologger.Logger](ctx)
	if logger != nil {
		logger.WithContext(ctx).WithFields(map[string]any{"to": req.To, "message_id": messageID}).Info("Sent message")
	}

	return c.JSON(http.StatusOK, models.SendMessageResponse{MessageID: messageID})
}
