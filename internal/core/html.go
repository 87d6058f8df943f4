package core

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
)

// PreviewShell is the page served for a deep link into the styleguide.
type PreviewShell struct {
	Title     string
	BodyHTML  string
	Record    NavigationRecord
	PropSet   string
	ModuleURI string
}

func RenderPreviewShell(shell PreviewShell) (string, error) {
	if shell.Record.SitePackageKey == "" {
		return "", fmt.Errorf("missing site package key")
	}

	state := map[string]any{
		"moduleUri":      shell.ModuleURI,
		"sitePackageKey": shell.Record.SitePackageKey,
		"prototypeName":  shell.Record.PrototypeName,
		"propSet":        shell.PropSet,
	}
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return "", err
	}

	escapedState := strings.ReplaceAll(string(stateJSON), "</", "<\\/")

	title := Namespace
	if shell.Title != "" {
		title = DocumentTitle(shell.Title)
	}

	page := fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="UTF-8" /><meta name="viewport" content="width=device-width, initial-scale=1.0" /><title>%s</title>
  </head>
  <body>
    <div id="monocle-preview">%s</div>
    <script id="__MONOCLE_STATE__" type="application/json">%s</script>
  </body>
</html>
`, html.EscapeString(title), shell.BodyHTML, escapedState)

	return page, nil
}
