package handler

import (
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

const pageTemplates = `
{{define "login"}}<!doctype html>
<html><head><title>Sign in</title></head>
<body>
<h1>Sign in</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="{{.Action}}">
<input type="hidden" name="redirect" value="{{.Redirect}}">
<label>Username <input name="username" value="{{.Username}}" autocomplete="username"></label>
<label>Password <input type="password" name="password" autocomplete="current-password"></label>
<button type="submit">Sign in</button>
</form>
</body></html>{{end}}

{{define "page"}}<!doctype html>
<html><head><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{if .User}}<p>Signed in as {{.User.Username}} ({{.User.Role}})</p>
<form method="post" action="/logout"><button type="submit">Sign out</button></form>
{{else}}<p><a href="{{.LoginPath}}">Sign in</a></p>{{end}}
</body></html>{{end}}
`

// Renderer implements echo.Renderer over the built-in page templates.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() *Renderer {
	return &Renderer{tmpl: template.Must(template.New("pages").Parse(pageTemplates))}
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}
