package pages

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"

	"ems_portal/web/templates"
)

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return "₹" + d.StringFixed(2)
	},
	"amount": func(d decimal.Decimal) string {
		return d.StringFixed(2)
	},
	"datetime": func(t time.Time) string {
		return t.Local().Format("02/01/2006 03:04:05 PM")
	},
	"date": func(t time.Time) string {
		return t.Local().Format("02 Jan 2006")
	},
	"lower": strings.ToLower,
	"year": func() int {
		return time.Now().Year()
	},
	"contains": func(list []string, s string) bool {
		for _, v := range list {
			if v == s {
				return true
			}
		}
		return false
	},
}

// pageSet maps a page file name to its parsed template. Layout pages are
// cloned from the base layout so each can define its own blocks.
var pageSet = mustParse(templates.FS)

func mustParse(fsys fs.FS) map[string]*template.Template {
	set := make(map[string]*template.Template)

	base := template.Must(template.New("").Funcs(funcs).ParseFS(fsys, "html/layouts/*.html", "html/partials/*.html"))

	pages, err := fs.Glob(fsys, "html/pages/*.html")
	if err != nil {
		panic(err)
	}
	for _, page := range pages {
		t := template.Must(template.Must(base.Clone()).ParseFS(fsys, page))
		set[path.Base(page)] = t
	}

	standalone, err := fs.Glob(fsys, "html/standalone/*.html")
	if err != nil {
		panic(err)
	}
	for _, page := range standalone {
		name := path.Base(page)
		set[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(fsys, page))
	}
	return set
}

func render(name string, data any) templ.Component {
	t, ok := pageSet[name]
	if !ok {
		return templ.ComponentFunc(func(context.Context, io.Writer) error {
			return fmt.Errorf("template not found: %s", name)
		})
	}
	entry := name
	if t.Lookup("base") != nil {
		entry = "base"
	}
	return templ.FromGoHTML(t.Lookup(entry), data)
}
