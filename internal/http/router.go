// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ferrychat/internal/http/handlers"
	"ferrychat/internal/http/middleware"
	"ferrychat/internal/modules/dialogue"
)

func NewRouter(dialogueService *dialogue.Service, log *zap.Logger) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.Logging(log))

	sessionHandler := handlers.NewSessionHandler(dialogueService)
	api := r.Group("/api")
	{
		api.POST("/sessions", sessionHandler.Create)
		api.GET("/sessions/:id", sessionHandler.Get)
		api.POST("/sessions/:id/text", sessionHandler.SubmitText)
		api.POST("/sessions/:id/quick-replies", sessionHandler.SelectQuickReply)
		api.POST("/sessions/:id/dates", sessionHandler.SelectDate)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
