package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pawsquare/pawsquare/internal/common"
	"github.com/pawsquare/pawsquare/internal/config"
	"github.com/pawsquare/pawsquare/internal/httpapi/handlers"
	"github.com/pawsquare/pawsquare/internal/httpapi/middleware"
	"github.com/pawsquare/pawsquare/internal/notify"
	"github.com/pawsquare/pawsquare/internal/presence"
	"github.com/pawsquare/pawsquare/internal/store/redisstore"
)

func NewRouter(db *gorm.DB, cfg config.Config, rds *redisstore.Store, queue notify.Queue, hub *presence.Hub) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.Use(middleware.RequestID())

	h := handlers.NewHandler(db, cfg, rds, queue, hub)

	r.GET("/ping", h.Ping)

	// signup & auth
	r.POST("/verify-code", h.SendVerifyCode)
	r.POST("/users", h.CreateUser)
	r.POST("/login", h.Login)

	// public reads
	r.GET("/users/:id", h.GetUserByID)
	r.GET("/users/:id/pets", h.ListUserPets)
	r.GET("/users/:id/followers", h.ListFollowers)
	r.GET("/users/:id/following", h.ListFollowing)
	r.GET("/posts", h.ListPosts)
	r.GET("/posts/:id", h.GetPost)
	r.GET("/posts/:id/comments", h.ListComments)
	r.GET("/pets/:id", h.GetPet)
	r.GET("/pets/:id/photos", h.ListPetPhotos)

	// AI assistant function endpoint (does its own auth + CORS)
	r.OPTIONS("/functions/v1/pet-care-assistant", h.AssistantPreflight)
	r.POST("/functions/v1/pet-care-assistant", h.AssistantChat)

	// authenticated
	authGroup := r.Group("/")
	authGroup.Use(middleware.AuthRequired(cfg.JWTSecret))
	authGroup.GET("/me", h.Me)
	authGroup.PATCH("/me", h.UpdateProfile)

	// writes additionally pass the ban guard
	writeGroup := authGroup.Group("/")
	writeGroup.Use(middleware.BanGuard(db))
	writeGroup.POST("/posts", h.CreatePost)
	writeGroup.DELETE("/posts/:id", h.DeletePost)
	writeGroup.POST("/posts/:id/comments", h.CreateComment)
	writeGroup.DELETE("/comments/:id", h.DeleteComment)
	writeGroup.PUT("/posts/:id/like", h.LikePost)
	writeGroup.DELETE("/posts/:id/like", h.UnlikePost)
	writeGroup.PUT("/posts/:id/bookmark", h.BookmarkPost)
	writeGroup.DELETE("/posts/:id/bookmark", h.UnbookmarkPost)
	writeGroup.PUT("/users/:id/follow", h.FollowUser)
	writeGroup.DELETE("/users/:id/follow", h.UnfollowUser)
	writeGroup.POST("/pets", h.CreatePet)
	writeGroup.PATCH("/pets/:id", h.UpdatePet)
	writeGroup.DELETE("/pets/:id", h.DeletePet)
	writeGroup.POST("/pets/:id/photos", h.AddPetPhoto)
	writeGroup.DELETE("/pet-photos/:id", h.DeletePetPhoto)
	writeGroup.POST("/conversations", h.OpenConversation)
	writeGroup.POST("/conversations/:conversation_id/messages", h.SendMessage)
	writeGroup.POST("/reports", h.CreateReport)

	authGroup.GET("/bookmarks", h.ListBookmarks)
	authGroup.GET("/conversations", h.ListConversations)
	authGroup.GET("/conversations/:conversation_id/messages", h.ListMessages)
	authGroup.GET("/notifications", h.ListNotifications)
	authGroup.POST("/notifications/read", h.MarkNotificationsRead)

	// realtime presence (websocket)
	authGroup.GET("/realtime/conversations/:conversation_id", h.ConversationPresence)
	authGroup.GET("/realtime/global", h.GlobalPresence)

	// moderation dashboard
	modGroup := authGroup.Group("/moderation")
	modGroup.Use(middleware.ModeratorRequired(db))
	modGroup.GET("/reports", h.ListReports)
	modGroup.POST("/reports/:id/resolve", h.ResolveReport)
	modGroup.POST("/bans", h.BanUser)
	modGroup.DELETE("/bans/:user_id", h.UnbanUser)

	return r
}
