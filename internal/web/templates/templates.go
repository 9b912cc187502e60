// Package templates holds the HTML components served by the web package.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/labplot/internal/core"
)

// page wraps body in the document shell.
func page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%s</title>`+
			`<style>%s</style></head><body><main>`, templ.EscapeString(title), css); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main><script>`+script+`</script></body></html>`)
		return err
	})
}

// Index lists every workflow with an upload form.
func Index(workflows []core.Workflow) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>labplot</h1><div id="status" role="status"></div>`)
		for _, wf := range workflows {
			writeForm(&b, wf)
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
	return page("labplot", body)
}

func writeForm(b *strings.Builder, wf core.Workflow) {
	key := templ.EscapeString(wf.Key)
	fmt.Fprintf(b, `<section><h2>%s</h2><form class="run" data-workflow="%s" enctype="multipart/form-data">`,
		templ.EscapeString(wf.Label), key)
	for _, f := range wf.Files {
		name := templ.EscapeString(f)
		fmt.Fprintf(b, `<label>%s <input type="file" name="%s" required></label>`, name, name)
	}
	for _, p := range wf.Params {
		name := templ.EscapeString(p)
		fmt.Fprintf(b, `<label>%s <input type="number" step="any" name="%s" required></label>`, name, name)
	}
	b.WriteString(`<label><input type="checkbox" name="createPPT" value="true"> slides</label>`)
	b.WriteString(`<label><input type="checkbox" name="saveProject" value="true"> project</label>`)
	b.WriteString(`<button type="submit">Run</button></form></section>`)
}

// ErrorAlert renders a user-facing error with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, `<div class="alert" role="alert"><p>%s</p>`, templ.EscapeString(message))
		if action != "" {
			fmt.Fprintf(&b, `<p>%s</p>`, templ.EscapeString(action))
		}
		fmt.Fprintf(&b, `<small>Code: %s</small></div>`, templ.EscapeString(code))
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ErrorPage renders ErrorAlert as a full document.
func ErrorPage(message, action, code string) templ.Component {
	return page("Error", ErrorAlert(message, action, code))
}

const css = `body{font-family:sans-serif;max-width:48rem;margin:2rem auto}` +
	`section{border:1px solid #ccc;padding:1rem;margin:1rem 0}` +
	`label{display:block;margin:.25rem 0}.alert{color:#900}`

// script posts a form to its workflow and shows the message. The file's
// modification date is sent as lastModified for graph annotations.
const script = `document.querySelectorAll("form.run").forEach(function(f){` +
	`f.addEventListener("submit",function(e){e.preventDefault();` +
	`var d=new FormData(f),s=document.getElementById("status"),file=f.querySelector("input[type=file]");` +
	`if(file&&file.files[0]){d.append("lastModified",new Date(file.files[0].lastModified).toLocaleDateString())}` +
	`s.textContent="Running...";` +
	`fetch("/api/run/"+f.dataset.workflow,{method:"POST",body:d}).then(function(r){return r.json()})` +
	`.then(function(j){s.textContent=j.message||j.error})` +
	`.catch(function(err){s.textContent=String(err)})})})`
