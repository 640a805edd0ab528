package handler

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookshop/internal/application/book"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/response"
)

// maxImageSize 封面图片大小上限（5MB）
const maxImageSize = 5 << 20

// BookHandler 图书HTTP处理器
type BookHandler struct {
	publishUseCase *appbook.PublishBookUseCase
	listUseCase    *appbook.ListBooksUseCase
	getUseCase     *appbook.GetBookUseCase
	updateUseCase  *appbook.UpdateBookUseCase
	deleteUseCase  *appbook.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	publishUseCase *appbook.PublishBookUseCase,
	listUseCase *appbook.ListBooksUseCase,
	getUseCase *appbook.GetBookUseCase,
	updateUseCase *appbook.UpdateBookUseCase,
	deleteUseCase *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		publishUseCase: publishUseCase,
		listUseCase:    listUseCase,
		getUseCase:     getUseCase,
		updateUseCase:  updateUseCase,
		deleteUseCase:  deleteUseCase,
	}
}

// openImage 从multipart表单取出封面文件（可选字段，未上传返回nil）
func openImage(c *gin.Context) (io.ReadCloser, string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		// 未上传封面不是错误
		return nil, "", nil
	}
	if fh.Size > maxImageSize {
		return nil, "", apperrors.New(apperrors.ErrCodeInvalidParams, "封面图片不能超过5MB")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", apperrors.WrapWithCode(err, apperrors.ErrCodeStorageError, "读取上传文件失败")
	}
	return f, fh.Filename, nil
}

// Publish 图书上架
// @Summary      图书上架
// @Description  员工上架新图书，multipart表单，封面文件字段为image
// @Tags         图书
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title formData string true "书名"
// @Param        isbn formData string true "ISBN"
// @Param        price formData int true "价格（分）"
// @Param        image formData file false "封面图片"
// @Success      200 {object} response.Response{data=book.PublishBookResponse}
// @Failure      403 {object} response.Response "仅限员工"
// @Failure      409 {object} response.Response "ISBN已存在"
// @Router       /api/v1/books [post]
func (h *BookHandler) Publish(c *gin.Context) {
	var form dto.BookForm
	if err := c.ShouldBind(&form); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	publishedAt, err := form.ParsePublishedAt()
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, err.Error())
		return
	}

	image, imageName, err := openImage(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if image != nil {
		defer image.Close()
	}

	result, err := h.publishUseCase.Execute(c.Request.Context(), appbook.PublishBookRequest{
		Title:       form.Title,
		ISBN:        form.ISBN,
		Description: form.Description,
		Price:       form.Price,
		Stock:       form.Stock,
		PublishedAt: publishedAt,
		Language:    form.Language,
		Format:      form.Format,
		PublisherID: form.PublisherID,
		AuthorIDs:   form.AuthorIDs,
		GenreIDs:    form.GenreIDs,
		Image:       image,
		ImageName:   imageName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// List 图书目录
// @Summary      图书目录
// @Description  分页浏览图书，支持搜索/筛选/排序
// @Tags         图书
// @Produce      json
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Param        search query string false "标题/简介搜索"
// @Param        author_id query int false "按作者筛选"
// @Param        genre_id query int false "按类目筛选"
// @Param        on_sale query bool false "仅看折扣中"
// @Param        sort_by query string false "排序方式"
// @Success      200 {object} response.Response{data=book.ListBooksResponse}
// @Router       /api/v1/books [get]
func (h *BookHandler) List(c *gin.Context) {
	var query dto.ListBooksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:      query.Page,
		PageSize:  query.PageSize,
		Search:    query.Search,
		AuthorID:  query.AuthorID,
		GenreID:   query.GenreID,
		PriceMin:  query.PriceMin,
		PriceMax:  query.PriceMax,
		RatingMin: query.RatingMin,
		RatingMax: query.RatingMax,
		Language:  query.Language,
		Formats:   query.FormatList(),
		InStock:   query.InStock,
		OnSale:    query.OnSale,
		SortBy:    query.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Get 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=book.BookDetail}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Update 图书编辑
// @Summary      图书编辑
// @Description  员工编辑图书信息，作者/类目整体替换，上传image时更换封面
// @Tags         图书
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      403 {object} response.Response "仅限员工"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var form dto.BookForm
	if err := c.ShouldBind(&form); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	publishedAt, err := form.ParsePublishedAt()
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, err.Error())
		return
	}

	image, imageName, err := openImage(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if image != nil {
		defer image.Close()
	}

	err = h.updateUseCase.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		BookID:      id,
		Title:       form.Title,
		Description: form.Description,
		Price:       form.Price,
		Stock:       form.Stock,
		PublishedAt: publishedAt,
		Language:    form.Language,
		Format:      form.Format,
		PublisherID: form.PublisherID,
		AuthorIDs:   form.AuthorIDs,
		GenreIDs:    form.GenreIDs,
		Image:       image,
		ImageName:   imageName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Delete 图书删除
// @Summary      图书删除
// @Description  员工删除图书，购物车/收藏/书评/折扣/订单明细一并清理
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      403 {object} response.Response "仅限员工"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.deleteUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// parseIDParam 解析路径中的数字ID参数
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的"+name+"参数")
		return 0, false
	}
	return uint(id), true
}
