package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/FrozenSaturn/todo-react-native/internal/ai"
	"github.com/FrozenSaturn/todo-react-native/internal/auth"
	dom "github.com/FrozenSaturn/todo-react-native/internal/domain"
	"github.com/FrozenSaturn/todo-react-native/internal/dto"
	"github.com/FrozenSaturn/todo-react-native/internal/service"
)

type TodoHandler struct {
	svc    *service.TodoService
	parser *ai.Parser
}

func NewTodoHandler(svc *service.TodoService, parser *ai.Parser) *TodoHandler {
	return &TodoHandler{svc: svc, parser: parser}
}

// Create godoc
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateTodoRequest  true  "Todo body"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := auth.UserIDFromContext(c)
	t, err := h.svc.Create(c.Request.Context(), userID, req.Title, req.Completed, req.FolderID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// List godoc
// @Summary      List todos
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query     int  false  "Offset"   default(0)
// @Param        limit  query     int  false  "Max rows"  default(100)
// @Success      200  {object}  dto.ListTodosResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	skip := parseQueryInt(c, "skip", 0)
	limit := parseQueryInt(c, "limit", 100)
	list, err := h.svc.List(c.Request.Context(), userID, skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ListTodosResponse{Items: todosToResponses(list)})
}

// Update godoc
// @Summary      Partially update a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Todo ID"
// @Param        body  body      dto.UpdateTodoRequest  true  "Fields to change"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /todos/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := auth.UserIDFromContext(c)
	t, err := h.svc.Update(c.Request.Context(), userID, id, req.Title, req.Completed, req.FolderID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// Delete godoc
// @Summary      Delete a todo (subtasks cascade)
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  dto.TodoResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := auth.UserIDFromContext(c)
	t, err := h.svc.Delete(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// AddSubTask godoc
// @Summary      Add a subtask to a todo
// @Tags         subtasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Todo ID"
// @Param        body  body      dto.CreateSubTaskRequest  true  "Subtask body"
// @Success      200   {object}  dto.SubTaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /todos/{id}/subtasks [post]
func (h *TodoHandler) AddSubTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateSubTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := auth.UserIDFromContext(c)
	st, err := h.svc.AddSubTask(c.Request.Context(), userID, id, req.Title)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, subTaskToResponse(st))
}

// SetSubTask godoc
// @Summary      Set a subtask's completion flag
// @Description  Re-derives the parent todo's completed flag from the full subtask set.
// @Tags         subtasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      int  true  "Todo ID"
// @Param        subId  path      int  true  "Subtask ID"
// @Param        body   body      dto.SetSubTaskRequest  true  "Completion flag"
// @Success      200    {object}  dto.SubTaskResponse
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /todos/{id}/subtasks/{subId} [put]
func (h *TodoHandler) SetSubTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	subID, ok := parseID(c, "subId")
	if !ok {
		return
	}
	var req dto.SetSubTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Completed == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "completed is required"})
		return
	}
	userID := auth.UserIDFromContext(c)
	st, err := h.svc.SetSubTaskDone(c.Request.Context(), userID, id, subID, *req.Completed)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, subTaskToResponse(st))
}

// Parse godoc
// @Summary      Parse free text into a structured task
// @Description  Best-effort AI extraction; on any upstream failure returns {text, "medium", null}.
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.ParseTaskRequest  true  "Free text"
// @Success      200   {object}  dto.ParseTaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /todos/parse [post]
func (h *TodoHandler) Parse(c *gin.Context) {
	var req dto.ParseTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	parsed := h.parser.Parse(c.Request.Context(), req.Text)
	c.JSON(http.StatusOK, dto.ParseTaskResponse{
		Title:    parsed.Title,
		Priority: parsed.Priority,
		DueDate:  parsed.DueDate,
	})
}

// SuggestSubTasks godoc
// @Summary      Suggest subtasks for a todo
// @Description  Asks the AI for 3-5 actionable subtask titles; failures yield an empty list.
// @Tags         subtasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  dto.SuggestSubTasksResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /todos/{id}/subtasks/suggest [post]
func (h *TodoHandler) SuggestSubTasks(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := auth.UserIDFromContext(c)
	t, err := h.svc.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	suggestions := h.parser.SuggestSubTasks(c.Request.Context(), t.Title)
	if suggestions == nil {
		suggestions = []string{}
	}
	c.JSON(http.StatusOK, dto.SuggestSubTasksResponse{Suggestions: suggestions})
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func parseQueryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func todoToResponse(t dom.Todo) dto.TodoResponse {
	subs := make([]dto.SubTaskResponse, len(t.SubTasks))
	for i := range t.SubTasks {
		subs[i] = subTaskToResponse(t.SubTasks[i])
	}
	return dto.TodoResponse{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		UserID:    t.UserID,
		FolderID:  t.FolderID,
		SubTasks:  subs,
	}
}

func todosToResponses(list []dom.Todo) []dto.TodoResponse {
	out := make([]dto.TodoResponse, len(list))
	for i := range list {
		out[i] = todoToResponse(list[i])
	}
	return out
}

func subTaskToResponse(s dom.SubTask) dto.SubTaskResponse {
	return dto.SubTaskResponse{
		ID:        s.ID,
		Title:     s.Title,
		Completed: s.Completed,
		TodoID:    s.TodoID,
	}
}
