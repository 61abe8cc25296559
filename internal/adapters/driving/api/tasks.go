package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/planner-api/internal/core/domain"
	"github.com/custodia-labs/planner-api/internal/core/ports/driving"
	"github.com/custodia-labs/planner-api/internal/logger"
)

const bearerPrefix = "Bearer "

// taskView is the wire shape of one task.
type taskView struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	DueDate   *string  `json:"dueDate"`
	Completed int      `json:"completed"`
	Tags      []string `json:"tags"`
	Plan      string   `json:"plan"`
}

type taskList struct {
	Value []taskView `json:"value"`
}

func toTaskView(t domain.Task) taskView {
	v := taskView{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		Tags:      t.Tags,
		Plan:      t.Plan,
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	if t.DueDate != nil {
		due := t.DueDate.UTC().Format(time.RFC3339)
		v.DueDate = &due
	}
	return v
}

// bearerToken returns the token after the case-sensitive "Bearer " prefix.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := header[len(bearerPrefix):]
	if strings.TrimSpace(token) == "" {
		return "", false
	}
	return token, true
}

// Tasks handles GET /api/tasks.
// The bearer token is forwarded to Graph without inspection.
func Tasks(svc driving.TaskService, exposeDetail bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, domain.KindUnauthorized.PublicMessage())
			return
		}

		tasks, err := svc.ListTasks(r.Context(), token)
		if err != nil {
			logger.Error("tasks: request_id=%s: %v", RequestID(r.Context()), err)
			msg := domain.PublicMessage(err)
			if exposeDetail {
				msg = err.Error()
			}
			writeError(w, http.StatusInternalServerError, msg)
			return
		}

		views := make([]taskView, 0, len(tasks))
		for _, t := range tasks {
			views = append(views, toTaskView(t))
		}
		writeJSON(w, http.StatusOK, taskList{Value: views})
	}
}
