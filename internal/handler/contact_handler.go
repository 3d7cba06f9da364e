package handler

import (
	"errors"
	"net/http"

	"github.com/devfolio/internal/service"
	"github.com/gin-gonic/gin"
)

// GetContacts 获取留言列表
func (a *API) GetContacts(c *gin.Context) {
	contacts, err := a.contacts.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "no se pudieron cargar los contactos")
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}

// MarkContactRead 将留言标记为已读
func (a *API) MarkContactRead(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID de contacto inválido")
		return
	}

	if err := a.contacts.MarkRead(id); err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			respondError(c, http.StatusNotFound, "contacto no encontrado")
			return
		}
		respondError(c, http.StatusInternalServerError, "no se pudo actualizar el contacto")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contacto marcado como leído."})
}

// DeleteContact 删除留言
func (a *API) DeleteContact(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID de contacto inválido")
		return
	}

	if err := a.contacts.Delete(id); err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			respondError(c, http.StatusNotFound, "contacto no encontrado")
			return
		}
		respondError(c, http.StatusInternalServerError, "no se pudo eliminar el contacto")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contacto eliminado."})
}
