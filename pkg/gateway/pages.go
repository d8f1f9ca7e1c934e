package gateway

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/docker/mcp-ui-servers/pkg/log"
)

const (
	taskPagePath = "/task"
	userPagePath = "/user"
)

//go:embed pages/*.html
var pagesFS embed.FS

var pageTemplates = template.Must(template.ParseFS(pagesFS, "pages/*.html"))

type taskRow struct {
	Name   string
	Counts taskCounts
}

func taskPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		rows := make([]taskRow, 0, len(team))
		for _, member := range team {
			rows = append(rows, taskRow{Name: member.Name, Counts: todayCounts[member.ID]})
		}
		renderPage(w, "task.html", struct {
			Rows []taskRow
			Week taskCounts
		}{
			Rows: rows,
			Week: weeklyTotals(),
		})
	}
}

func userPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		id := query.Get("id")
		counts, known := todayCounts[strings.ToLower(id)]
		renderPage(w, "user.html", struct {
			ID        string
			Name      string
			AvatarURL string
			Known     bool
			Counts    taskCounts
		}{
			ID:        id,
			Name:      query.Get("name"),
			AvatarURL: query.Get("avatarUrl"),
			Known:     known,
			Counts:    counts,
		})
	}
}

func renderPage(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		log.Logf("! Rendering %s: %s", name, err)
	}
}
