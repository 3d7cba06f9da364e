package handler

import (
	"errors"
	"net/http"

	"github.com/devfolio/internal/service"
	"github.com/gin-gonic/gin"
)

type projectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	URL         string   `json:"url"`
	RepoURL     string   `json:"repoUrl"`
	Tags        []string `json:"tags"`
	Type        string   `json:"type"`
	Featured    bool     `json:"featured"`
	SortOrder   int      `json:"sortOrder"`
	Published   bool     `json:"published"`
}

func (r projectRequest) toInput() service.ProjectInput {
	return service.ProjectInput{
		Title:       r.Title,
		Description: r.Description,
		Image:       r.Image,
		URL:         r.URL,
		RepoURL:     r.RepoURL,
		Tags:        r.Tags,
		Type:        r.Type,
		Featured:    r.Featured,
		SortOrder:   r.SortOrder,
		Published:   r.Published,
	}
}

// GetProjects 获取项目列表
func (a *API) GetProjects(c *gin.Context) {
	projects, err := a.projects.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "no se pudieron cargar los proyectos")
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// CreateProject 创建新项目
func (a *API) CreateProject(c *gin.Context) {
	var req projectRequest
	if !bindJSON(c, &req, "datos de proyecto inválidos") {
		return
	}

	project, err := a.projects.Create(req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrProjectTitleMissing) || errors.Is(err, service.ErrProjectTypeInvalid) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "no se pudo crear el proyecto")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// UpdateProject 更新项目
func (a *API) UpdateProject(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID de proyecto inválido")
		return
	}

	var req projectRequest
	if !bindJSON(c, &req, "datos de proyecto inválidos") {
		return
	}

	project, err := a.projects.Update(id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProjectNotFound):
			respondError(c, http.StatusNotFound, "proyecto no encontrado")
		case errors.Is(err, service.ErrProjectTitleMissing), errors.Is(err, service.ErrProjectTypeInvalid):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "no se pudo actualizar el proyecto")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// DeleteProject 删除项目
func (a *API) DeleteProject(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID de proyecto inválido")
		return
	}

	if err := a.projects.Delete(id); err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			respondError(c, http.StatusNotFound, "proyecto no encontrado")
			return
		}
		respondError(c, http.StatusInternalServerError, "no se pudo eliminar el proyecto")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Proyecto eliminado."})
}
