package registry

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/telekom/series-registry/pkg/apiresponses"
	"github.com/telekom/series-registry/pkg/system"
)

const invalidBodyMessage = "invalid request body"

type SubscribeRequest struct {
	Email       string `json:"email"`
	SeriesTitle string `json:"seriesTitle"`
}

type UnsubscribeRequest struct {
	Email string `json:"email"`
}

// NotifyRequest fields left out of the body take the configured defaults.
type NotifyRequest struct {
	Subject *string  `json:"subject"`
	Body    *string  `json:"body"`
	Emails  []string `json:"emails"`
}

type SubscriptionResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Email   string `json:"email"`
}

type NotifyResponse struct {
	OK          bool   `json:"ok"`
	Recipients  int    `json:"recipients"`
	Subject     string `json:"subject"`
	BodyPreview string `json:"bodyPreview"`
}

// Controller serves the subscription endpoints.
type Controller struct {
	manager *Manager
	log     *zap.SugaredLogger
}

func NewController(manager *Manager, log *zap.SugaredLogger) *Controller {
	return &Controller{manager: manager, log: log}
}

func (Controller) BasePath() string {
	return ""
}

func (rc *Controller) Register(rg *gin.RouterGroup) error {
	rg.POST("/subscribe", rc.handleSubscribe)
	rg.POST("/unsubscribe", rc.handleUnsubscribe)
	rg.POST("/notify", rc.handleNotify)
	return nil
}

func (Controller) Handlers() []gin.HandlerFunc {
	return []gin.HandlerFunc{}
}

func (rc *Controller) handleSubscribe(c *gin.Context) {
	reqLog := system.GetReqLogger(c, rc.log)

	var req SubscribeRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		reqLog.Debugw("Rejecting malformed subscribe body", "error", err)
		apiresponses.RespondBadRequest(c, invalidBodyMessage)
		return
	}

	res, err := rc.manager.Subscribe(c.Request.Context(), req.Email, req.SeriesTitle)
	if err != nil {
		rc.respondError(c, "subscribe", err, reqLog)
		return
	}
	apiresponses.RespondOK(c, SubscriptionResponse{OK: true, Message: res.Message, Email: res.Email})
}

func (rc *Controller) handleUnsubscribe(c *gin.Context) {
	reqLog := system.GetReqLogger(c, rc.log)

	var req UnsubscribeRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		reqLog.Debugw("Rejecting malformed unsubscribe body", "error", err)
		apiresponses.RespondBadRequest(c, invalidBodyMessage)
		return
	}

	res, err := rc.manager.Unsubscribe(c.Request.Context(), req.Email)
	if err != nil {
		rc.respondError(c, "unsubscribe", err, reqLog)
		return
	}
	apiresponses.RespondOK(c, SubscriptionResponse{OK: true, Message: res.Message, Email: res.Email})
}

func (rc *Controller) handleNotify(c *gin.Context) {
	reqLog := system.GetReqLogger(c, rc.log)

	var req NotifyRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		reqLog.Debugw("Rejecting malformed notify body", "error", err)
		apiresponses.RespondBadRequest(c, invalidBodyMessage)
		return
	}

	res, err := rc.manager.Broadcast(c.Request.Context(), BroadcastRequest(req))
	if err != nil {
		rc.respondError(c, "notify", err, reqLog)
		return
	}
	apiresponses.RespondOK(c, NotifyResponse{
		OK:          true,
		Recipients:  res.Recipients,
		Subject:     res.Subject,
		BodyPreview: res.BodyPreview,
	})
}

func (rc *Controller) respondError(c *gin.Context, op string, err error, log *zap.SugaredLogger) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		apiresponses.RespondBadRequest(c, ve.Message)
		return
	}
	apiresponses.RespondInternalError(c, op, err, log)
}

// bindOptionalJSON decodes the request body into obj. An empty body leaves
// obj at its zero value.
func bindOptionalJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
