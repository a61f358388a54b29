package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/middleware"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/user"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/httputil"
)

type Handler struct {
	service *user.Service
}

func NewHandler(service *user.Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the unauthenticated login endpoint.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/auth/login", h.Login)
}

// RegisterRoutes mounts the authenticated user-management endpoints.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.POST("", middleware.RequireAdmin(), h.CreateUser)
		users.GET("", middleware.RequireAdmin(), h.ListUsers)
		users.GET("/me", h.Me)
		users.GET("/:id", middleware.RequireAdmin(), h.GetUser)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, resp)
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, created)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, users)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid user id")
		return
	}

	u, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, u)
}

// Me returns the authenticated user's own record.
func (h *Handler) Me(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		httputil.BadRequest(c, "not authenticated")
		return
	}

	u, err := h.service.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, u)
}
