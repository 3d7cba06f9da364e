package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/devfolio/internal/db"
	"github.com/devfolio/internal/service"
	"github.com/gin-gonic/gin"
)

const homeBlogLimit = 3

// Home 返回首页所需的全部数据：站点文案、社交链接、项目与最新博客。
func (a *API) Home(c *gin.Context) {
	settings, err := a.settings.All()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "no se pudo cargar la página")
		return
	}

	socials, err := a.settings.Socials()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "no se pudo cargar la página")
		return
	}

	visibility, err := a.settings.SectionVisibility()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "no se pudo cargar la página")
		return
	}

	sideProjects, err := a.projects.ListPublished(db.ProjectTypeSideProject)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "no se pudo cargar la página")
		return
	}

	portfolios, err := a.projects.ListPublished(db.ProjectTypePortfolio)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "no se pudo cargar la página")
		return
	}

	blogs, err := a.blogs.ListPublished(homeBlogLimit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "no se pudo cargar la página")
		return
	}

	seo := make(map[string]string, len(db.SEOKeys))
	for _, key := range db.SEOKeys {
		seo[key] = settings[key]
	}

	c.JSON(http.StatusOK, gin.H{
		"heroTitle":         settings[db.SettingKeyHeroTitle],
		"heroSubtitle":      settings[db.SettingKeyHeroSubtitle],
		"heroBadge":         settings[db.SettingKeyHeroBadge],
		"about":             settings[db.SettingKeyAbout],
		"hobbies":           settings[db.SettingKeyHobbies],
		"socials":           socials,
		"sectionVisibility": visibility,
		"sideProjects":      sideProjects,
		"portfolios":        portfolios,
		"blogs":             blogs,
		"seo":               seo,
	})
}

// ShowBlog 返回单篇已发布博客：渲染后的正文、相关文章与 SEO 元数据。
func (a *API) ShowBlog(c *gin.Context) {
	slug := c.Param("slug")

	blog, err := a.blogs.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			respondError(c, http.StatusNotFound, "artículo no encontrado")
			return
		}
		respondError(c, http.StatusInternalServerError, "no se pudo cargar el artículo")
		return
	}

	rendered, err := a.blogs.RenderHTML(blog)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "no se pudo cargar el artículo")
		return
	}

	related, err := a.blogs.Related(blog)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "no se pudo cargar el artículo")
		return
	}

	var publishedAt string
	if blog.PublishedAt != nil {
		publishedAt = blog.PublishedAt.Format(time.RFC3339)
	}

	canonical := fmt.Sprintf("%s/blog/%s", strings.TrimRight(a.siteBaseURL, "/"), blog.Slug)

	c.JSON(http.StatusOK, gin.H{
		"blog":         blog,
		"contentHTML":  rendered,
		"relatedBlogs": related,
		"seo": gin.H{
			"title":       blog.Title,
			"description": a.blogs.SEODescription(blog),
			"keywords":    strings.Join(blog.Tags, ", "),
			"canonical":   canonical,
			"ogType":      "article",
			"ogImage":     blog.Image,
			"publishedAt": publishedAt,
		},
	})
}

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// SubmitContact 处理联系表单提交。
func (a *API) SubmitContact(c *gin.Context) {
	var req contactRequest
	if !bindJSON(c, &req, "se requieren nombre, email y mensaje") {
		return
	}

	contact, err := a.contacts.Create(service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		if errors.Is(err, service.ErrContactInvalid) {
			respondError(c, http.StatusBadRequest, "se requieren nombre, email y mensaje")
			return
		}
		respondError(c, http.StatusInternalServerError, "no se pudo enviar el mensaje")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": contact.ID, "message": "Mensaje enviado."})
}
