package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-registry-api/internal/application/ports"
	domain "user-registry-api/internal/domain/user"
	"user-registry-api/internal/infrastructure/jwt"
	"user-registry-api/internal/interface/api/rest/dto/user"
	"user-registry-api/internal/interface/api/rest/middleware"
	"user-registry-api/internal/interface/api/rest/validator"
)

type UserController struct {
	userService ports.UserService
	logger      *zap.Logger
}

// NewUserController registers the user routes. Mutating routes require a bearer
// token unless jwtService is nil.
func NewUserController(
	r *gin.Engine,
	userService ports.UserService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *UserController {
	uc := &UserController{
		userService: userService,
		logger:      logger,
	}

	validator.UseJSONFieldNames()

	guard := []gin.HandlerFunc{}
	if jwtService != nil {
		guard = append(guard,
			middleware.AuthMiddleware(jwtService),
			middleware.RequireRole(jwt.RoleAdmin, jwt.RoleWriter),
		)
	}

	r.GET(RouteUsers, uc.GetUsersHandler)
	r.GET(RouteUserByEmail, uc.GetUserByEmailHandler)
	r.GET(RouteUser, uc.GetUserHandler)
	r.POST(RouteUsers, guarded(guard, uc.CreateUserHandler)...)
	r.PUT(RouteUser, guarded(guard, uc.UpdateUserHandler)...)
	r.DELETE(RouteUser, guarded(guard, uc.DeleteUserHandler)...)
	r.POST(RouteUserActivate, guarded(guard, uc.ActivateUserHandler)...)
	r.POST(RouteUserDeactivate, guarded(guard, uc.DeactivateUserHandler)...)

	return uc
}

func guarded(guard []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	return append(guard[:len(guard):len(guard)], h)
}

func (uc *UserController) GetUsersHandler(c *gin.Context) {
	skip, limit, err := validator.ValidatePagination(c.Query("skip"), c.Query("limit"))
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": err.Error()},
		)
		return
	}

	users, err := uc.userService.FindUsers(c.Request.Context(), skip, limit)
	if err != nil {
		uc.fail(c, err, "FindUsers", "failed to get users")
		return
	}

	c.JSON(http.StatusOK, user.ToListResponse(users, skip, limit))
}

func (uc *UserController) GetUserHandler(c *gin.Context) {
	id, ok := uc.userID(c)
	if !ok {
		return
	}

	u, err := uc.userService.FindUserByID(c.Request.Context(), id)
	if err != nil {
		uc.fail(c, err, "FindUserByID", "failed to get a user")
		return
	}

	uc.respondUser(c, http.StatusOK, u)
}

func (uc *UserController) GetUserByEmailHandler(c *gin.Context) {
	u, err := uc.userService.FindUserByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		uc.fail(c, err, "FindUserByEmail", "failed to get a user")
		return
	}

	uc.respondUser(c, http.StatusOK, u)
}

func (uc *UserController) CreateUserHandler(c *gin.Context) {
	var req user.CreateRequest
	if !uc.bind(c, &req) {
		return
	}

	u, err := uc.userService.CreateUser(c.Request.Context(), req.Email, req.FirstName, req.LastName)
	if err != nil {
		uc.fail(c, err, "CreateUser", "failed to create a user")
		return
	}

	c.JSON(http.StatusCreated, user.ToResponse(u))
}

func (uc *UserController) UpdateUserHandler(c *gin.Context) {
	id, ok := uc.userID(c)
	if !ok {
		return
	}

	var req user.UpdateRequest
	if !uc.bind(c, &req) {
		return
	}

	u, err := uc.userService.UpdateUser(c.Request.Context(), id, ports.UserPatch{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		uc.fail(c, err, "UpdateUser", "failed to update a user")
		return
	}

	uc.respondUser(c, http.StatusOK, u)
}

func (uc *UserController) DeleteUserHandler(c *gin.Context) {
	id, ok := uc.userID(c)
	if !ok {
		return
	}

	deleted, err := uc.userService.DeleteUser(c.Request.Context(), id)
	if err != nil {
		uc.fail(c, err, "DeleteUser", "failed to delete user")
		return
	}
	if !deleted {
		c.JSON(
			http.StatusNotFound,
			gin.H{"error": "user not found"},
		)
		return
	}

	c.Status(http.StatusNoContent)
}

func (uc *UserController) ActivateUserHandler(c *gin.Context) {
	id, ok := uc.userID(c)
	if !ok {
		return
	}

	u, err := uc.userService.ActivateUser(c.Request.Context(), id)
	if err != nil {
		uc.fail(c, err, "ActivateUser", "failed to activate user")
		return
	}

	uc.respondUser(c, http.StatusOK, u)
}

func (uc *UserController) DeactivateUserHandler(c *gin.Context) {
	id, ok := uc.userID(c)
	if !ok {
		return
	}

	u, err := uc.userService.DeactivateUser(c.Request.Context(), id)
	if err != nil {
		uc.fail(c, err, "DeactivateUser", "failed to deactivate user")
		return
	}

	uc.respondUser(c, http.StatusOK, u)
}

func (uc *UserController) userID(c *gin.Context) (domain.ID, bool) {
	id, err := domain.ParseID(c.Param("user_id"))
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "user_id must be a valid UUID"},
		)
		return domain.ID{}, false
	}

	return id, true
}

func (uc *UserController) bind(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var details any = err.Error()
	if errs := validator.BindingErrors(err); errs != nil {
		details = errs
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid request body",
		"details": details,
	})

	return false
}

func (uc *UserController) respondUser(c *gin.Context, status int, u *domain.User) {
	if u == nil {
		c.JSON(
			http.StatusNotFound,
			gin.H{"error": "user not found"},
		)
		return
	}

	c.JSON(status, user.ToResponse(u))
}

// fail maps domain errors to client errors; anything else is logged and hidden behind msg.
func (uc *UserController) fail(c *gin.Context, err error, op, msg string) {
	switch {
	case errors.Is(err, domain.ErrEmptyValue),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrMissingName),
		errors.Is(err, domain.ErrNotDeletable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": msg},
		)
		uc.logger.Error(op+"() error", zap.Error(err))
	}
}
