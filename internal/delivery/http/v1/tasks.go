package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-tasklist/internal/models"
	"github.com/adanyl0v/go-tasklist/internal/services"
)

type taskResponse struct {
	ID              string     `json:"id"`
	Text            string     `json:"text"`
	Completed       bool       `json:"completed"`
	Editing         bool       `json:"editing"`
	CreatedAt       time.Time  `json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	CreatedAtText   string     `json:"created_at_text"`
	CompletedAtText string     `json:"completed_at_text,omitempty"`
}

type statsResponse struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

type emptyStateResponse struct {
	Message  string `json:"message"`
	Subtitle string `json:"subtitle"`
}

type viewResponse struct {
	Filter     string              `json:"filter"`
	EditingID  *string             `json:"editing_id"`
	Stats      statsResponse       `json:"stats"`
	Tasks      []taskResponse      `json:"tasks"`
	EmptyState *emptyStateResponse `json:"empty_state,omitempty"`
}

func newViewResponse(view *services.View) viewResponse {
	resp := viewResponse{
		Filter: string(view.Filter),
		Stats: statsResponse{
			Total:     view.Stats.Total,
			Pending:   view.Stats.Pending,
			Completed: view.Stats.Completed,
		},
		Tasks: make([]taskResponse, len(view.Tasks)),
	}
	if view.Editing {
		editingID := view.EditingID
		resp.EditingID = &editingID
	}
	for i, task := range view.Tasks {
		resp.Tasks[i] = taskResponse{
			ID:              task.ID,
			Text:            task.Text,
			Completed:       task.Completed,
			Editing:         view.Editing && view.EditingID == task.ID,
			CreatedAt:       task.CreatedAt,
			CompletedAt:     task.CompletedAt,
			CreatedAtText:   task.CreatedAtText,
			CompletedAtText: task.CompletedAtText,
		}
	}
	if view.EmptyState != nil {
		resp.EmptyState = &emptyStateResponse{
			Message:  view.EmptyState.Message,
			Subtitle: view.EmptyState.Subtitle,
		}
	}
	return resp
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	sessionID, _ := getStringFromContext(c, sessionIDCtxKey)

	view, err := h.tasks.GetView(c, sessionID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get tasks")
		abort(c, serviceError(err))
		return
	}

	h.logger.Debug().
		Int("count", len(view.Tasks)).
		Msg("fetched tasks")
	c.JSON(http.StatusOK, newViewResponse(view))
}

type taskTextRequest struct {
	Text string `json:"text" form:"text"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	sessionID, _ := getStringFromContext(c, sessionIDCtxKey)

	var req taskTextRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	view, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		SessionID: sessionID,
		Text:      req.Text,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		abort(c, serviceError(err))
		return
	}

	h.logger.Info().Msg("created task")
	c.JSON(http.StatusCreated, newViewResponse(view))
}

func (h *handlerImpl) HandleToggleTask(c *gin.Context) {
	sessionID, _ := getStringFromContext(c, sessionIDCtxKey)

	view, err := h.tasks.ToggleTask(c, services.TaskParams{
		SessionID: sessionID,
		TaskID:    c.Param("id"),
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to toggle task")
		abort(c, serviceError(err))
		return
	}

	h.logger.Info().Msg("toggled task")
	c.JSON(http.StatusOK, newViewResponse(view))
}

// HandleDeleteTask removes a task once the client has asked the user.
// The answer is passed as ?confirm=true.
func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	sessionID, _ := getStringFromContext(c, sessionIDCtxKey)

	confirmed := false
	if raw := c.Query("confirm"); raw != "" {
		var err error
		confirmed, err = strconv.ParseBool(raw)
		if err != nil {
			h.logger.Error().
				Err(err).
				Str("confirm", raw).
				Msg("invalid confirm parameter")
			abort(c, newBadRequestError(errInvalidQueryParam.Error()))
			return
		}
	}

	view, err := h.tasks.DeleteTask(c, services.DeleteTaskParams{
		SessionID: sessionID,
		TaskID:    c.Param("id"),
		Confirmed: confirmed,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to delete task")
		abort(c, serviceError(err))
		return
	}

	h.logger.Info().Msg("deleted task")
	c.JSON(http.StatusOK, newViewResponse(view))
}

func (h *handlerImpl) HandleBeginEdit(c *gin.Context) {
	sessionID, _ := getStringFromContext(c, sessionIDCtxKey)

	view, err := h.tasks.BeginEdit(c, services.TaskParams{
		SessionID: sessionID,
		TaskID:    c.Param("id"),
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to begin edit")
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, newViewResponse(view))
}

func (h *handlerImpl) HandleCancelEdit(c *gin.Context) {
	sessionID, _ := getStringFromContext(c, sessionIDCtxKey)

	view, err := h.tasks.CancelEdit(c, sessionID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to cancel edit")
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, newViewResponse(view))
}

func (h *handlerImpl) HandleCommitEdit(c *gin.Context) {
	sessionID, _ := getStringFromContext(c, sessionIDCtxKey)

	var req taskTextRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	view, err := h.tasks.CommitEdit(c, services.CommitEditParams{
		SessionID: sessionID,
		TaskID:    c.Param("id"),
		Text:      req.Text,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update task")
		abort(c, serviceError(err))
		return
	}

	h.logger.Info().Msg("updated task")
	c.JSON(http.StatusOK, newViewResponse(view))
}

type setFilterRequest struct {
	Filter string `json:"filter" form:"filter"`
}

func (h *handlerImpl) HandleSetFilter(c *gin.Context) {
	sessionID, _ := getStringFromContext(c, sessionIDCtxKey)

	var req setFilterRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	view, err := h.tasks.SetFilter(c, services.SetFilterParams{
		SessionID: sessionID,
		Filter:    models.Filter(req.Filter),
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("filter", req.Filter).
			Msg("failed to set filter")
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, newViewResponse(view))
}
