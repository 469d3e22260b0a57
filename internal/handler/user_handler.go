package handler

import (
	"github.com/Baaaki/content-square/internal/response"
	"github.com/Baaaki/content-square/internal/service"
	"github.com/Baaaki/content-square/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Surname  string `json:"surname" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	RoleID   uint   `json:"role_id" binding:"required"`
}

type UpdateUserRequest struct {
	ID       uint    `json:"id" binding:"required"`
	Name     *string `json:"name"`
	Surname  *string `json:"surname"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	RoleID   *uint   `json:"role_id"`
}

// POST /users/create
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), service.CreateUserInput{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: req.Password,
		RoleID:   req.RoleID,
	})
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, CreatedView{ID: user.ID}, "User created successfully")
}

// GET /users/all?skip=0&limit=10
func (h *UserHandler) List(c *gin.Context) {
	q, ok := bindPage(c)
	if !ok {
		return
	}

	page, err := h.userService.List(c.Request.Context(), q.Skip, q.Limit)
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, presentUserPage(page), "")
}

// POST /users/get
func (h *UserHandler) Get(c *gin.Context) {
	var req IDRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), req.ID)
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, presentUser(user), "")
}

// POST /users/update
func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.userService.Update(c.Request.Context(), service.UpdateUserInput{
		ID:       req.ID,
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: req.Password,
		RoleID:   req.RoleID,
	})
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, nil, "User updated successfully")
}

// POST /users/delete
func (h *UserHandler) Delete(c *gin.Context) {
	var req IDRequest
	if !bindJSON(c, &req) {
		return
	}

	logger.Log.Info("User delete requested",
		zap.Uint("target_user_id", req.ID),
	)

	if err := h.userService.Delete(c.Request.Context(), req.ID); err != nil {
		fail(c, err)
		return
	}

	response.OK(c, nil, "User deleted successfully")
}
