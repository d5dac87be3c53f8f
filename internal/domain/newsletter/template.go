package newsletter

import (
	"bytes"
	"embed"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"newznepal/internal/domain/post"
	"newznepal/internal/pkg/mailer"
)

//go:embed templates/post.html templates/post.txt
var templateFS embed.FS

var (
	htmlTmpl = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/post.html"))
	textTmpl = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/post.txt"))
)

type emailData struct {
	Title          string
	Summary        string
	CategoryLabel  string
	Date           string
	ImageURL       string
	PostURL        string
	UnsubscribeURL string
	Year           int
}

// render builds the per-recipient message for p.
func render(p *post.Post, siteURL, unsubscribeURL string) (mailer.Message, error) {
	data := emailData{
		Title:          p.Title,
		Summary:        p.Summary,
		CategoryLabel:  strings.ToUpper(p.Category.LabelEn()) + " / " + p.Category.LabelNe(),
		Date:           p.CreatedAt.Format("2 January 2006"),
		PostURL:        strings.TrimRight(siteURL, "/") + "/posts/" + p.ID,
		UnsubscribeURL: unsubscribeURL,
		Year:           time.Now().Year(),
	}
	if p.ImageURL != nil {
		data.ImageURL = *p.ImageURL
	}

	var html, text bytes.Buffer
	if err := htmlTmpl.Execute(&html, data); err != nil {
		return mailer.Message{}, err
	}
	if err := textTmpl.Execute(&text, data); err != nil {
		return mailer.Message{}, err
	}

	return mailer.Message{
		Subject: "New Article: " + p.Title,
		HTML:    html.String(),
		Text:    text.String(),
		Headers: map[string]string{
			"List-Unsubscribe": "<" + unsubscribeURL + ">",
		},
	}, nil
}
