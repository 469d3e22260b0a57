package handler

import (
	"github.com/Baaaki/content-square/internal/response"
	"github.com/Baaaki/content-square/internal/service"
	"github.com/gin-gonic/gin"
)

type TagHandler struct {
	tagService *service.TagService
}

func NewTagHandler(tagService *service.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

type CreateTagRequest struct {
	Name    string `json:"name" binding:"required"`
	PostIDs []uint `json:"post_ids"`
}

// UpdateTagRequest: absent post_ids keeps the posts, [] clears them
type UpdateTagRequest struct {
	ID      uint    `json:"id" binding:"required"`
	Name    *string `json:"name"`
	PostIDs *[]uint `json:"post_ids"`
}

// POST /tags/create
func (h *TagHandler) Create(c *gin.Context) {
	var req CreateTagRequest
	if !bindJSON(c, &req) {
		return
	}

	tag, err := h.tagService.Create(c.Request.Context(), service.CreateTagInput{
		Name:    req.Name,
		PostIDs: req.PostIDs,
	})
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, CreatedView{ID: tag.ID}, "Tag created successfully")
}

// GET /tags/all?skip=0&limit=10
func (h *TagHandler) List(c *gin.Context) {
	q, ok := bindPage(c)
	if !ok {
		return
	}

	page, err := h.tagService.List(c.Request.Context(), q.Skip, q.Limit)
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, presentTagPage(page), "")
}

// POST /tags/get
func (h *TagHandler) Get(c *gin.Context) {
	var req IDRequest
	if !bindJSON(c, &req) {
		return
	}

	tag, err := h.tagService.Get(c.Request.Context(), req.ID)
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, presentTag(tag), "")
}

// POST /tags/update
func (h *TagHandler) Update(c *gin.Context) {
	var req UpdateTagRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.tagService.Update(c.Request.Context(), service.UpdateTagInput{
		ID:      req.ID,
		Name:    req.Name,
		PostIDs: req.PostIDs,
	})
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, nil, "Tag updated successfully")
}

// POST /tags/delete
func (h *TagHandler) Delete(c *gin.Context) {
	var req IDRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.tagService.Delete(c.Request.Context(), req.ID); err != nil {
		fail(c, err)
		return
	}

	response.OK(c, nil, "Tag deleted successfully")
}
