package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/mileusna/useragent"
	"go.uber.org/zap"

	"github.com/Kosench/shortlink-analytics/internal/model"
)

type Redirector interface {
	Resolve(ctx context.Context, shortCode string, meta model.VisitorMetadata) (*model.RedirectResult, error)
}

type RedirectHandler struct {
	redirector Redirector
	logger     *zap.Logger
}

func NewRedirectHandler(redirector Redirector, logger *zap.Logger) *RedirectHandler {
	return &RedirectHandler{
		redirector: redirector,
		logger:     logger,
	}
}

// Redirect фиксирует клик и отвечает 302 на исходный адрес
func (h *RedirectHandler) Redirect(c *gin.Context) {
	result, err := h.redirector.Resolve(c.Request.Context(), c.Param("code"), visitorMetadata(c.Request))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.Redirect(http.StatusFound, result.TargetURL)
}

func visitorMetadata(r *http.Request) model.VisitorMetadata {
	return model.VisitorMetadata{
		Device:   deviceType(r.UserAgent()),
		Referrer: referrerHost(r.Referer()),
	}
}

// deviceType классифицирует User-Agent: Bot, Tablet, Mobile или Desktop.
// Нераспознанный агент дает nil и попадает в "unknown".
func deviceType(userAgent string) *string {
	if userAgent == "" {
		return nil
	}

	ua := useragent.Parse(userAgent)

	var device string
	switch {
	case ua.Bot:
		device = "Bot"
	case ua.Tablet:
		device = "Tablet"
	case ua.Mobile:
		device = "Mobile"
	case ua.Desktop:
		device = "Desktop"
	default:
		return nil
	}

	return &device
}

func referrerHost(referer string) *string {
	if referer == "" {
		return nil
	}

	u, err := url.Parse(referer)
	if err != nil || u.Hostname() == "" {
		return nil
	}

	host := u.Hostname()
	return &host
}
