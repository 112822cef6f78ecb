package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pawsquare/pawsquare/internal/assistant"
	"github.com/pawsquare/pawsquare/internal/common"
	"github.com/pawsquare/pawsquare/internal/community"
	"github.com/pawsquare/pawsquare/internal/config"
	"github.com/pawsquare/pawsquare/internal/email"
	"github.com/pawsquare/pawsquare/internal/httpapi/middleware"
	"github.com/pawsquare/pawsquare/internal/messaging"
	"github.com/pawsquare/pawsquare/internal/moderation"
	"github.com/pawsquare/pawsquare/internal/notify"
	"github.com/pawsquare/pawsquare/internal/pets"
	"github.com/pawsquare/pawsquare/internal/presence"
	"github.com/pawsquare/pawsquare/internal/social"
	"github.com/pawsquare/pawsquare/internal/store/redisstore"
)

type Handler struct {
	DB          *gorm.DB
	Cfg         config.Config
	Redis       *redisstore.Store
	SMTPSetting email.SMTPConfig

	CommunitySvc  *community.Service
	SocialSvc     *social.Service
	PetsSvc       *pets.Service
	MessagingSvc  *messaging.Service
	NotifySvc     *notify.Service
	ModerationSvc *moderation.Service

	Hub       *presence.Hub
	Gateway   *assistant.Gateway
	UsageRepo *assistant.UsageRepo
	CORS      assistant.CORSPolicy
}

func NewHandler(db *gorm.DB, cfg config.Config, r *redisstore.Store, queue notify.Queue, hub *presence.Hub) *Handler {
	notifySvc := notify.NewService(notify.NewRepo(db), queue)
	return &Handler{
		DB:    db,
		Cfg:   cfg,
		Redis: r,
		SMTPSetting: email.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
		},
		CommunitySvc:  community.NewService(community.NewRepo(db), notifySvc),
		SocialSvc:     social.NewService(db, notifySvc),
		PetsSvc:       pets.NewService(db),
		MessagingSvc:  messaging.NewService(messaging.NewRepo(db), notifySvc),
		NotifySvc:     notifySvc,
		ModerationSvc: moderation.NewService(db),
		Hub:           hub,
		Gateway:       assistant.NewGateway(cfg.GatewayBaseURL, cfg.GatewayAPIKey, cfg.GatewayModel),
		UsageRepo:     assistant.NewUsageRepo(db),
		CORS: assistant.CORSPolicy{
			AllowedOrigins: cfg.AllowedOrigins,
			CustomDomain:   cfg.CustomDomain,
			ProjectDomain:  cfg.ProjectDomain,
		},
	}
}

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"pong": true})
}

func userIDFromContext(c *gin.Context) (uint64, bool) {
	return middleware.UserID(c)
}

func fail(c *gin.Context, httpStatus int, code int, msg string) {
	common.Fail(c, httpStatus, code, msg)
}

func ok(c *gin.Context, data any) {
	common.OK(c, data)
}

func notFound(c *gin.Context, msg string) {
	common.Fail(c, http.StatusNotFound, 40400, msg)
}
