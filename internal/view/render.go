package view

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/index.html templates/styles.css
var assets embed.FS

var pageTemplate = template.Must(template.ParseFS(assets, "templates/index.html"))

// Stylesheet returns the page stylesheet.
func Stylesheet() []byte {
	b, _ := assets.ReadFile("templates/styles.css")
	return b
}

type page struct {
	State
	Base           string
	NoParticipants string
	NoticeDelayMS  int64
}

// RenderPage writes the HTML page for s. base is the path prefix the page
// is served under (for example "/static"); form actions and the stylesheet
// link are resolved against it.
func RenderPage(w io.Writer, base string, s State) error {
	return pageTemplate.Execute(w, page{
		State:          s,
		Base:           base,
		NoParticipants: NoParticipants,
		NoticeDelayMS:  s.Notice.Remaining.Milliseconds(),
	})
}
