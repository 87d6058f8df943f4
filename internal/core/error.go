package core

import (
	"errors"
	"html/template"
)

var (
	ErrUnknownSite         = errors.New("unknown site package")
	ErrUnknownPrototype    = errors.New("unknown prototype")
	ErrRendererUnavailable = errors.New("renderer not available")
)

type ErrorData struct {
	Heading       string
	PrototypeName string
	Message       string
	IsDev         bool
}

var ErrorTemplate = template.Must(template.New("error").Parse(`<!doctype html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Monocle: Error</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 50px auto; padding: 0 20px; }
        h1 { color: #e74c3c; }
        pre { background: #f8f9fa; padding: 15px; border-radius: 5px; overflow-x: auto; }
    </style>
</head>
<body>
    <h1>{{if .Heading}}{{.Heading}}{{else}}Internal Server Error{{end}}</h1>
    {{if .PrototypeName}}<p>Prototype: <code>{{.PrototypeName}}</code></p>{{end}}
    {{if .IsDev}}
    <pre>{{.Message}}</pre>
    {{else}}
    <p>An error occurred while rendering the styleguide.</p>
    {{end}}
</body>
</html>`))
