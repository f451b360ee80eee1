package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FrozenSaturn/todo-react-native/internal/auth"
	dom "github.com/FrozenSaturn/todo-react-native/internal/domain"
	"github.com/FrozenSaturn/todo-react-native/internal/dto"
	"github.com/FrozenSaturn/todo-react-native/internal/service"
)

type FolderHandler struct {
	svc *service.FolderService
}

func NewFolderHandler(svc *service.FolderService) *FolderHandler {
	return &FolderHandler{svc: svc}
}

// List godoc
// @Summary      List folders with their todos
// @Tags         folders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ListFoldersResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /folders [get]
func (h *FolderHandler) List(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	list, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.FolderResponse, len(list))
	for i := range list {
		out[i] = folderToResponse(list[i])
	}
	c.JSON(http.StatusOK, dto.ListFoldersResponse{Items: out})
}

// Create godoc
// @Summary      Create a folder
// @Tags         folders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateFolderRequest  true  "Folder body"
// @Success      200   {object}  dto.FolderResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /folders [post]
func (h *FolderHandler) Create(c *gin.Context) {
	var req dto.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := auth.UserIDFromContext(c)
	f, err := h.svc.Create(c.Request.Context(), userID, req.Title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, folderToResponse(f))
}

func folderToResponse(f dom.Folder) dto.FolderResponse {
	return dto.FolderResponse{
		ID:     f.ID,
		Title:  f.Title,
		UserID: f.UserID,
		Todos:  todosToResponses(f.Todos),
	}
}
