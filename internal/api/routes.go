package api

import (
	"net/http"

	"alcyxob/fitness-testkit/internal/harness"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func SetupRoutes(
	router *gin.Engine,
	h *harness.Harness,
	tokens *TokenIssuer,
	logger *zap.Logger,
) {
	fixtureHandler := NewFixtureHandler(h, tokens, logger)
	authMiddleware := AuthMiddleware(tokens)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	apiV1.POST("/users", fixtureHandler.CreateUser)

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			uid, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": uid})
		})

		programGroup := protected.Group("/programs")
		{
			// POST /api/v1/programs/seed
			programGroup.POST("/seed", fixtureHandler.SeedProgram)
			programGroup.GET("/:programId", fixtureHandler.GetProgram)
			programGroup.DELETE("/:programId", fixtureHandler.DeleteProgram)
		}

		protected.POST("/collections/clear", fixtureHandler.ClearCollections)
		protected.POST("/signout", fixtureHandler.SignOut)
	}
}

// NewRouter builds a gin engine with recovery, request logging and all
// fixture routes.
func NewRouter(h *harness.Harness, tokens *TokenIssuer, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))
	SetupRoutes(router, h, tokens, logger)
	return router
}
