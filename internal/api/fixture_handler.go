package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"alcyxob/fitness-testkit/internal/docstore"
	"alcyxob/fitness-testkit/internal/domain"
	"alcyxob/fitness-testkit/internal/harness"
	"alcyxob/fitness-testkit/internal/identity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FixtureHandler exposes the harness fixture operations over HTTP.
type FixtureHandler struct {
	harness *harness.Harness
	tokens  *TokenIssuer
	logger  *zap.Logger
}

func NewFixtureHandler(h *harness.Harness, tokens *TokenIssuer, logger *zap.Logger) *FixtureHandler {
	return &FixtureHandler{harness: h, tokens: tokens, logger: logger}
}

// --- Request/Response Structs ---

// CreateUserRequest may be empty; the harness then generates an email and
// uses the default password.
type CreateUserRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateUserResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// SeedRequest overrides the default fan-out level by level. Omitted
// fields keep their default. Each level accepts 0 to 50.
type SeedRequest struct {
	Weeks               *int `json:"weeks" binding:"omitempty,min=0,max=50"`
	WorkoutsPerWeek     *int `json:"workoutsPerWeek" binding:"omitempty,min=0,max=50"`
	ExercisesPerWorkout *int `json:"exercisesPerWorkout" binding:"omitempty,min=0,max=50"`
	SetsPerExercise     *int `json:"setsPerExercise" binding:"omitempty,min=0,max=50"`
}

func (r SeedRequest) shape() harness.Shape {
	s := harness.DefaultShape
	if r.Weeks != nil {
		s.Weeks = *r.Weeks
	}
	if r.WorkoutsPerWeek != nil {
		s.WorkoutsPerWeek = *r.WorkoutsPerWeek
	}
	if r.ExercisesPerWorkout != nil {
		s.ExercisesPerWorkout = *r.ExercisesPerWorkout
	}
	if r.SetsPerExercise != nil {
		s.SetsPerExercise = *r.SetsPerExercise
	}
	return s
}

type ClearRequest struct {
	Collections []string `json:"collections" binding:"required,min=1"`
}

type ClearResponse struct {
	Cleared []string `json:"cleared"`
}

type DeleteProgramResponse struct {
	ProgramID string            `json:"programId"`
	Deleted   domain.TreeCounts `json:"deleted"`
}

// --- Handler Methods ---

// CreateUser creates a test user and returns it with a fixture token.
func (h *FixtureHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
			return
		}
	}

	user, err := h.harness.CreateTestUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrEmailExists):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, identity.ErrInvalidCredentials):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("create test user failed", zap.Error(err))
			abortWithError(c, http.StatusInternalServerError, "Could not create test user")
		}
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.Error("issue token failed", zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "Could not issue token")
		return
	}

	c.JSON(http.StatusCreated, CreateUserResponse{
		Token: token,
		User:  UserResponse{ID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt},
	})
}

// SeedProgram seeds a program hierarchy owned by the caller.
func (h *FixtureHandler) SeedProgram(c *gin.Context) {
	uid, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req SeedRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
			return
		}
	}

	res, err := h.harness.SeedProgramHierarchy(c.Request.Context(), uid, req.shape())
	if err != nil {
		if errors.Is(err, harness.ErrInvalidShape) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("seed failed", zap.String("uid", uid), zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "Could not seed program")
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GetProgram returns one of the caller's programs with all descendants.
func (h *FixtureHandler) GetProgram(c *gin.Context) {
	uid, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	tree, err := h.harness.LoadProgramTree(c.Request.Context(), uid, c.Param("programId"))
	if err != nil {
		h.storeError(c, err, "Could not load program")
		return
	}
	c.JSON(http.StatusOK, tree)
}

// DeleteProgram removes one of the caller's programs bottom-up.
func (h *FixtureHandler) DeleteProgram(c *gin.Context) {
	uid, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	programID := c.Param("programId")
	deleted, err := h.harness.DeleteProgramTree(c.Request.Context(), uid, programID)
	if err != nil {
		h.storeError(c, err, "Could not delete program")
		return
	}
	c.JSON(http.StatusOK, DeleteProgramResponse{ProgramID: programID, Deleted: deleted})
}

// ClearCollections empties the named top-level collections.
func (h *FixtureHandler) ClearCollections(c *gin.Context) {
	var req ClearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.harness.ClearCollections(c.Request.Context(), req.Collections...); err != nil {
		h.storeError(c, err, "Could not clear collections")
		return
	}
	c.JSON(http.StatusOK, ClearResponse{Cleared: req.Collections})
}

// SignOut ends the caller's session.
func (h *FixtureHandler) SignOut(c *gin.Context) {
	uid, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	if err := h.harness.SignOutUser(c.Request.Context(), uid); err != nil {
		h.logger.Error("sign out failed", zap.String("uid", uid), zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "Could not sign out")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FixtureHandler) storeError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, harness.ErrNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case docstore.IsInvalidPath(err):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(message, zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, message)
	}
}
