// Package web serves the minimal HTML UI: a video list, an add form, and an
// ask form with rendered answers.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"

	"github.com/vidqa/vidqa/application/service"
	"github.com/vidqa/vidqa/domain/video"
	"github.com/vidqa/vidqa/internal/log"
)

//go:embed templates/*.html
var templateFS embed.FS

// UI renders the web pages.
type UI struct {
	library   service.LibraryService
	qa        service.QAService
	templates *template.Template
	sanitizer *bluemonday.Policy
	logger    *log.Logger
}

// NewUI creates the web UI handler. Panics if the embedded templates fail to
// parse, which only happens on a broken build.
func NewUI(library service.LibraryService, qa service.QAService, logger *log.Logger) *UI {
	if logger == nil {
		logger = log.Default()
	}
	return &UI{
		library:   library,
		qa:        qa,
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger,
	}
}

// Routes returns the chi router for the UI pages.
func (u *UI) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", u.Index)
	router.Post("/add", u.Add)
	router.Get("/ask", u.AskForm)
	router.Post("/ask", u.Ask)
	return router
}

type videoView struct {
	ID         string
	URL        string
	Title      string
	Uploader   string
	Duration   string
	ChunkCount int
}

type indexView struct {
	Videos  []videoView
	Stats   service.LibraryStats
	Message string
	Error   string
}

// Index handles GET /.
func (u *UI) Index(w http.ResponseWriter, r *http.Request) {
	u.renderIndex(w, r, "", "")
}

func (u *UI) renderIndex(w http.ResponseWriter, r *http.Request, message, errMsg string) {
	ctx := r.Context()

	videos, err := u.library.ListVideos(ctx)
	if err != nil {
		u.renderError(w, r, err)
		return
	}
	stats, err := u.library.Stats(ctx)
	if err != nil {
		u.renderError(w, r, err)
		return
	}

	view := indexView{
		Videos:  make([]videoView, len(videos)),
		Stats:   stats,
		Message: message,
		Error:   errMsg,
	}
	for i, v := range videos {
		view.Videos[i] = videoView{
			ID:         v.ID(),
			URL:        v.URL(),
			Title:      v.Title(),
			Uploader:   v.Uploader(),
			Duration:   video.FormatTimestamp(v.Duration()),
			ChunkCount: v.ChunkCount(),
		}
	}
	u.render(w, r, "index.html", view)
}

// Add handles POST /add.
func (u *UI) Add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		u.renderIndex(w, r, "", "invalid form submission")
		return
	}
	url := r.FormValue("url")
	if url == "" {
		u.renderIndex(w, r, "", "enter a video URL or ID")
		return
	}

	v, err := u.library.AddVideo(r.Context(), url,
		service.WithForceRefresh(r.FormValue("force_refresh") == "on"))
	if err != nil {
		u.renderIndex(w, r, "", err.Error())
		return
	}
	u.renderIndex(w, r, "Indexed \""+v.Title()+"\"", "")
}

type sourceView struct {
	Title     string
	Uploader  string
	Timestamp string
	Score     float64
	Text      string
}

type askView struct {
	Question    string
	Answer      template.HTML
	HasAnswer   bool
	Fallback    bool
	Sources     []sourceView
	ShowSources bool
	Error       string
}

// AskForm handles GET /ask.
func (u *UI) AskForm(w http.ResponseWriter, r *http.Request) {
	u.render(w, r, "ask.html", askView{ShowSources: true})
}

// Ask handles POST /ask.
func (u *UI) Ask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		u.render(w, r, "ask.html", askView{ShowSources: true, Error: "invalid form submission"})
		return
	}
	question := r.FormValue("question")
	if question == "" {
		u.render(w, r, "ask.html", askView{ShowSources: true, Error: "enter a question"})
		return
	}

	answer, err := u.qa.Ask(r.Context(), question)
	if err != nil {
		u.render(w, r, "ask.html", askView{Question: question, ShowSources: true, Error: err.Error()})
		return
	}

	view := askView{
		Question:    question,
		Answer:      u.renderMarkdown(answer.Text()),
		HasAnswer:   true,
		Fallback:    answer.Fallback(),
		ShowSources: true,
	}
	for _, s := range answer.Sources() {
		view.Sources = append(view.Sources, sourceView{
			Title:     s.Title(),
			Uploader:  s.Uploader(),
			Timestamp: video.FormatTimestamp(s.Start()),
			Score:     s.Score(),
			Text:      s.Text(),
		})
	}
	u.render(w, r, "ask.html", view)
}

// renderMarkdown converts model output to sanitized HTML.
func (u *UI) renderMarkdown(text string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	rendered := markdown.ToHTML([]byte(text), p, renderer)
	return template.HTML(u.sanitizer.SanitizeBytes(rendered))
}

func (u *UI) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := u.templates.ExecuteTemplate(w, name, data); err != nil {
		u.logger.ErrorContext(r.Context(), "template render failed", "template", name, "error", err)
	}
}

func (u *UI) renderError(w http.ResponseWriter, r *http.Request, err error) {
	u.logger.ErrorContext(r.Context(), "page render failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
