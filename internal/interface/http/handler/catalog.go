package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/xiebiao/bookshop/internal/application/catalog"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/response"
)

// CatalogHandler 目录维度HTTP处理器（作者/类目/出版社）
type CatalogHandler struct {
	catalogUseCase *appcatalog.CatalogUseCase
}

// NewCatalogHandler 创建目录处理器
func NewCatalogHandler(catalogUseCase *appcatalog.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{catalogUseCase: catalogUseCase}
}

// CreateAuthor 创建作者
// @Summary      创建作者
// @Tags         目录
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body catalog.CreateAuthorRequest true "作者信息"
// @Success      200 {object} response.Response{data=catalog.AuthorResponse}
// @Failure      403 {object} response.Response "仅限员工"
// @Router       /api/v1/authors [post]
func (h *CatalogHandler) CreateAuthor(c *gin.Context) {
	var req appcatalog.CreateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.catalogUseCase.CreateAuthor(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListAuthors 作者列表
// @Summary      作者列表
// @Tags         目录
// @Produce      json
// @Success      200 {object} response.Response{data=[]catalog.AuthorResponse}
// @Router       /api/v1/authors [get]
func (h *CatalogHandler) ListAuthors(c *gin.Context) {
	result, err := h.catalogUseCase.ListAuthors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateGenre 创建类目
// @Summary      创建类目
// @Tags         目录
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body catalog.CreateGenreRequest true "类目信息"
// @Success      200 {object} response.Response{data=catalog.GenreResponse}
// @Failure      403 {object} response.Response "仅限员工"
// @Failure      409 {object} response.Response "类目名称已存在"
// @Router       /api/v1/genres [post]
func (h *CatalogHandler) CreateGenre(c *gin.Context) {
	var req appcatalog.CreateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.catalogUseCase.CreateGenre(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListGenres 类目列表
// @Summary      类目列表
// @Tags         目录
// @Produce      json
// @Success      200 {object} response.Response{data=[]catalog.GenreResponse}
// @Router       /api/v1/genres [get]
func (h *CatalogHandler) ListGenres(c *gin.Context) {
	result, err := h.catalogUseCase.ListGenres(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreatePublisher 创建出版社
// @Summary      创建出版社
// @Tags         目录
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body catalog.CreatePublisherRequest true "出版社信息"
// @Success      200 {object} response.Response{data=catalog.PublisherResponse}
// @Failure      403 {object} response.Response "仅限员工"
// @Router       /api/v1/publishers [post]
func (h *CatalogHandler) CreatePublisher(c *gin.Context) {
	var req appcatalog.CreatePublisherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.catalogUseCase.CreatePublisher(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListPublishers 出版社列表
// @Summary      出版社列表
// @Tags         目录
// @Produce      json
// @Success      200 {object} response.Response{data=[]catalog.PublisherResponse}
// @Router       /api/v1/publishers [get]
func (h *CatalogHandler) ListPublishers(c *gin.Context) {
	result, err := h.catalogUseCase.ListPublishers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
