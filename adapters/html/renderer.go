// Package html renders profile page views to HTML documents.
package html

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/khoahotran/profile-pages/internal/domain/page"
	"github.com/khoahotran/profile-pages/pkg/colorcode"
)

//go:embed templates/*.html
var templateFS embed.FS

type Renderer struct {
	tmpl   *template.Template
	md     goldmark.Markdown
	policy *bluemonday.Policy
	color  func() string
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	return &Renderer{
		tmpl:   tmpl,
		md:     goldmark.New(),
		policy: bluemonday.UGCPolicy(),
		color:  colorcode.Random,
	}, nil
}

type pageData struct {
	View            page.View
	Class           string
	Refresh         int
	PlaceholderText string
	Heading         string
	Message         string
	Bio             template.HTML
	Initial         string
	InitialColor    string
}

func (r *Renderer) Render(w io.Writer, v page.View) error {
	data := pageData{View: v, Class: v.Theme.Class()}

	var name string
	switch v.Kind {
	case page.ViewPlaceholder:
		name = "placeholder"
		data.PlaceholderText = page.PlaceholderText
		if v.RefreshAfter > 0 {
			data.Refresh = int(math.Ceil(v.RefreshAfter.Seconds()))
		}
	case page.ViewHidden:
		name = "hidden"
	case page.ViewNotFound:
		name = "message"
		data.Heading, data.Message = page.NotFoundHeading, page.NotFoundMessage
	case page.ViewError:
		name = "message"
		data.Heading, data.Message = page.ErrorHeading, page.ErrorMessage
	case page.ViewProfile:
		name = "profile"
		if v.Header != nil {
			bio, err := r.renderBio(v.Header.Bio)
			if err != nil {
				return err
			}
			data.Bio = bio
			if v.Header.AvatarURL == "" {
				data.Initial = initial(v.Header.DisplayName)
				data.InitialColor = r.color()
			}
		}
	default:
		return fmt.Errorf("unknown view kind %d", v.Kind)
	}

	if err := r.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("execute %s template: %w", name, err)
	}
	return nil
}

// renderBio renders markdown and strips anything a user could inject.
func (r *Renderer) renderBio(bio string) (template.HTML, error) {
	if strings.TrimSpace(bio) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(bio), &buf); err != nil {
		return "", fmt.Errorf("render bio markdown: %w", err)
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}

func initial(name string) string {
	c, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if c == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(c))
}
