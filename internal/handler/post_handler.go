package handler

import (
	"net/http"

	"github.com/Baaaki/content-square/internal/authz"
	"github.com/Baaaki/content-square/internal/middleware"
	"github.com/Baaaki/content-square/internal/response"
	"github.com/Baaaki/content-square/internal/service"
	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

type CreatePostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
	OwnerID *uint  `json:"owner_id"`
	TagIDs  []uint `json:"tag_ids"`
}

type UpdatePostRequest struct {
	ID      uint    `json:"id" binding:"required"`
	Title   *string `json:"title"`
	Content *string `json:"content"`
	TagIDs  *[]uint `json:"tag_ids"`
}

// actor reads the authenticated user, it is always present behind AuthMiddleware
func actor(c *gin.Context) (authz.Actor, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "Not authenticated")
		return authz.Actor{}, false
	}
	return service.ActorFrom(user), true
}

// POST /posts/create
func (h *PostHandler) Create(c *gin.Context) {
	var req CreatePostRequest
	if !bindJSON(c, &req) {
		return
	}
	who, ok := actor(c)
	if !ok {
		return
	}

	post, err := h.postService.Create(c.Request.Context(), who, service.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
		OwnerID: req.OwnerID,
		TagIDs:  req.TagIDs,
	})
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, CreatedView{ID: post.ID}, "Post created successfully")
}

// GET /posts/all?skip=0&limit=10
func (h *PostHandler) List(c *gin.Context) {
	q, ok := bindPage(c)
	if !ok {
		return
	}

	page, err := h.postService.List(c.Request.Context(), q.Skip, q.Limit)
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, presentPostPage(page), "")
}

// POST /posts/get
func (h *PostHandler) Get(c *gin.Context) {
	var req IDRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.postService.Get(c.Request.Context(), req.ID)
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, presentPostDetail(post), "")
}

// POST /posts/update
func (h *PostHandler) Update(c *gin.Context) {
	var req UpdatePostRequest
	if !bindJSON(c, &req) {
		return
	}
	who, ok := actor(c)
	if !ok {
		return
	}

	err := h.postService.Update(c.Request.Context(), who, service.UpdatePostInput{
		ID:      req.ID,
		Title:   req.Title,
		Content: req.Content,
		TagIDs:  req.TagIDs,
	})
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, nil, "Post updated successfully")
}

// POST /posts/delete
func (h *PostHandler) Delete(c *gin.Context) {
	var req IDRequest
	if !bindJSON(c, &req) {
		return
	}
	who, ok := actor(c)
	if !ok {
		return
	}

	if err := h.postService.Delete(c.Request.Context(), who, req.ID); err != nil {
		fail(c, err)
		return
	}

	response.OK(c, nil, "Post deleted successfully")
}
