package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"usercache-be/internal/models"
	"usercache-be/internal/service"
)

type UserController struct {
	userService service.UserService
	log         *zap.Logger
}

func NewUserController(userService service.UserService, log *zap.Logger) *UserController {
	return &UserController{
		userService: userService,
		log:         log,
	}
}

// GetUser handles GET /users/:id
func (uc *UserController) GetUser(c *gin.Context) {
	id := c.Param("id")

	user, err := uc.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		uc.internalError(c, err, "failed to get user")
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: models.ErrUserNotFound})
		return
	}

	c.JSON(http.StatusOK, user)
}

// CreateUser handles POST /users
func (uc *UserController) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   models.ErrValidation,
			Details: validationDetails(err),
		})
		return
	}

	user, err := uc.userService.CreateUser(c.Request.Context(), req.ToFields())
	if err != nil {
		uc.internalError(c, err, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// internalError logs the cause and replies without leaking it
func (uc *UserController) internalError(c *gin.Context, err error, msg string) {
	uc.log.Error(msg,
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: models.ErrInternalServer})
}
