package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/devfolio/internal/service"
	"github.com/gin-gonic/gin"
)

// seoImageTypes 限定可通过图片接口写入的设置键。
var seoImageTypes = map[string]bool{
	"og_image":      true,
	"twitter_image": true,
	"favicon":       true,
}

// GetSettings 返回全部站点设置。
func (a *API) GetSettings(c *gin.Context) {
	settings, err := a.settings.All()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "no se pudo cargar la configuración")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings 批量更新站点设置。
func (a *API) UpdateSettings(c *gin.Context) {
	var values map[string]string
	if !bindJSON(c, &values, "configuración inválida") {
		return
	}

	if err := a.settings.SetAll(values); err != nil {
		if errors.Is(err, service.ErrUnknownSettingKey) {
			respondError(c, http.StatusBadRequest, "clave de configuración desconocida")
			return
		}
		respondError(c, http.StatusInternalServerError, "no se pudo guardar la configuración")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Configuración actualizada."})
}

// UploadSEOImage 上传 SEO 相关图片并替换旧文件。
func (a *API) UploadSEOImage(c *gin.Context) {
	imageType := c.PostForm("type")
	if !seoImageTypes[imageType] {
		respondError(c, http.StatusBadRequest, "tipo de imagen inválido")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "no se encontró la imagen")
		return
	}

	fileURL, ok := a.saveUploadedImage(c, file)
	if !ok {
		return
	}

	old, err := a.settings.Get(imageType)
	if err == nil && old != "" {
		a.removeUploadedFile(old)
	}

	if err := a.settings.Set(imageType, fileURL); err != nil {
		respondError(c, http.StatusInternalServerError, "no se pudo guardar la configuración")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": fileURL, "message": "Imagen actualizada."})
}

// DeleteSEOImage 删除 SEO 相关图片并清空对应设置。
func (a *API) DeleteSEOImage(c *gin.Context) {
	var req struct {
		Type string `json:"type"`
	}
	if !bindJSON(c, &req, "tipo de imagen inválido") {
		return
	}
	if !seoImageTypes[req.Type] {
		respondError(c, http.StatusBadRequest, "tipo de imagen inválido")
		return
	}

	old, err := a.settings.Get(req.Type)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "no se pudo cargar la configuración")
		return
	}
	if old != "" {
		a.removeUploadedFile(old)
	}

	if err := a.settings.Set(req.Type, ""); err != nil {
		respondError(c, http.StatusInternalServerError, "no se pudo guardar la configuración")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Imagen eliminada."})
}

// removeUploadedFile 尽力删除上传目录中的旧文件，失败静默忽略。
func (a *API) removeUploadedFile(fileURL string) {
	if !strings.HasPrefix(fileURL, a.uploadURL+"/") {
		return
	}
	os.Remove(filepath.Join(a.uploadDir, filepath.Base(fileURL)))
}
