package web

import (
	"bytes"
	"testing"

	"todo-planner/internal/models"
	"todo-planner/internal/session"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates_ParseBothPages(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	assert.NotNil(t, tmpl.Lookup(LoginPage))
	assert.NotNil(t, tmpl.Lookup(DashboardPage))
}

func TestTemplates_RenderDashboard(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	listID := uuid.Must(uuid.NewV4())
	doneID := uuid.Must(uuid.NewV4())
	data := map[string]interface{}{
		"UserName": "<Ana>",
		"Flash":    &session.Flash{Category: session.FlashSuccess, Message: "Task deleted."},
		"Lists": []models.TodoList{{
			ListID:   listID,
			ListName: "Plan a trip",
			Tasks: []models.Task{
				{TaskID: doneID, ListID: listID, TaskDescription: "Book flights", IsCompleted: true},
				{TaskID: uuid.Must(uuid.NewV4()), ListID: listID, TaskDescription: "Book hotel"},
			},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, DashboardPage, data))
	html := buf.String()

	assert.Contains(t, html, "Hello, &lt;Ana&gt;")
	assert.Contains(t, html, `alert-success`)
	assert.Contains(t, html, "Plan a trip")
	assert.Contains(t, html, "1/2")
	assert.Contains(t, html, "/delete_list/"+listID.String())
	assert.Contains(t, html, "/toggle_task/"+doneID.String())
	assert.NotContains(t, html, "No lists yet")
}

func TestTemplates_RenderEmptyDashboard(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, DashboardPage, map[string]interface{}{
		"UserName": "Ana",
		"Lists":    []models.TodoList{},
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "No lists yet")
	assert.NotContains(t, buf.String(), "alert-")
}
