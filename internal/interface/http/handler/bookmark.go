package handler

import (
	"github.com/gin-gonic/gin"

	appbookmark "github.com/xiebiao/bookshop/internal/application/bookmark"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/response"
)

// BookmarkHandler 收藏HTTP处理器
type BookmarkHandler struct {
	bookmarkUseCase *appbookmark.ManageBookmarkUseCase
}

// NewBookmarkHandler 创建收藏处理器
func NewBookmarkHandler(bookmarkUseCase *appbookmark.ManageBookmarkUseCase) *BookmarkHandler {
	return &BookmarkHandler{bookmarkUseCase: bookmarkUseCase}
}

// Toggle 切换收藏
// @Summary      切换收藏状态
// @Description  未收藏则收藏，已收藏则取消，返回操作后状态
// @Tags         收藏
// @Produce      json
// @Security     BearerAuth
// @Param        bookId path int true "图书ID"
// @Success      200 {object} response.Response{data=bookmark.ToggleResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/bookmarks/{bookId} [post]
func (h *BookmarkHandler) Toggle(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	result, err := h.bookmarkUseCase.Toggle(c.Request.Context(), middleware.MustGetUserID(c), bookID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// List 收藏列表
// @Summary      收藏列表
// @Tags         收藏
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]bookmark.BookmarkedBook}
// @Router       /api/v1/bookmarks [get]
func (h *BookmarkHandler) List(c *gin.Context) {
	result, err := h.bookmarkUseCase.List(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
