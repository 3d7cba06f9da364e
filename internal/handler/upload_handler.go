package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadImage 处理图片上传请求
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "no se encontró la imagen")
		return
	}

	fileURL, ok := a.saveUploadedImage(c, file)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": fileURL})
}

// saveUploadedImage 校验并保存上传的图片，返回其公开访问路径。
// 失败时已写入错误响应，调用方直接返回即可。
func (a *API) saveUploadedImage(c *gin.Context, file *multipart.FileHeader) (string, bool) {
	// 检查文件类型
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(c, http.StatusBadRequest, "solo se permiten imágenes")
		return "", false
	}

	// 创建上传目录
	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		respondError(c, http.StatusInternalServerError, "no se pudo crear el directorio de subida")
		return "", false
	}

	// 生成唯一文件名
	ext := filepath.Ext(file.Filename)
	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	filePath := filepath.Join(a.uploadDir, newFilename)

	if err := c.SaveUploadedFile(file, filePath); err != nil {
		respondError(c, http.StatusInternalServerError, "no se pudo guardar el archivo")
		return "", false
	}

	return fmt.Sprintf("%s/%s", a.uploadURL, newFilename), true
}
