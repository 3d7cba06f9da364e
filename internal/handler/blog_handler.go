package handler

import (
	"errors"
	"net/http"

	"github.com/devfolio/internal/service"
	"github.com/gin-gonic/gin"
)

type blogRequest struct {
	Title     string   `json:"title"`
	Excerpt   string   `json:"excerpt"`
	Content   string   `json:"content"`
	Image     string   `json:"image"`
	Tags      []string `json:"tags"`
	Published bool     `json:"published"`
}

func (r blogRequest) toInput() service.BlogInput {
	return service.BlogInput{
		Title:     r.Title,
		Excerpt:   r.Excerpt,
		Content:   r.Content,
		Image:     r.Image,
		Tags:      r.Tags,
		Published: r.Published,
	}
}

// GetBlogs 获取博客列表（含草稿，仅后台使用）
func (a *API) GetBlogs(c *gin.Context) {
	blogs, err := a.blogs.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "no se pudieron cargar los blogs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"blogs": blogs})
}

// CreateBlog 创建新博客
func (a *API) CreateBlog(c *gin.Context) {
	var req blogRequest
	if !bindJSON(c, &req, "datos de blog inválidos") {
		return
	}

	blog, err := a.blogs.Create(req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrBlogTitleMissing) || errors.Is(err, service.ErrBlogContentMissing) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "no se pudo crear el blog")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"blog": blog})
}

// UpdateBlog 更新博客
func (a *API) UpdateBlog(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID de blog inválido")
		return
	}

	var req blogRequest
	if !bindJSON(c, &req, "datos de blog inválidos") {
		return
	}

	blog, err := a.blogs.Update(id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBlogNotFound):
			respondError(c, http.StatusNotFound, "blog no encontrado")
		case errors.Is(err, service.ErrBlogTitleMissing), errors.Is(err, service.ErrBlogContentMissing):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "no se pudo actualizar el blog")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"blog": blog})
}

// DeleteBlog 删除博客
func (a *API) DeleteBlog(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID de blog inválido")
		return
	}

	if err := a.blogs.Delete(id); err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			respondError(c, http.StatusNotFound, "blog no encontrado")
			return
		}
		respondError(c, http.StatusInternalServerError, "no se pudo eliminar el blog")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Blog eliminado."})
}
