package ui

import (
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# Game Console

Live inspector and editor for the quest game backend.

## Pages

| Key | Page |
|-----|------|
| ` + "`esc`" + ` | State — collapsible tree of the latest snapshot |
| ` + "`e` or `2`" + ` | Requests — staged payload per operation |
| ` + "`?`" + ` | This help page |

## State page

- ` + "`up`/`down` or `k`/`j`" + ` move the cursor between collapsible nodes
- ` + "`enter` or `space`" + ` toggle the node under the cursor
- ` + "`pgup`/`pgdn`" + ` (or ` + "`ctrl+u`/`ctrl+d`" + `) scroll the tree
- User references resolve lazily; ` + "`@id ⬡`" + ` means still loading

## Requests page

- ` + "`[` and `]`" + ` switch between operations
- ` + "`tab`/`shift+tab`" + ` move between fields
- ` + "`left`/`right`" + ` cycle enum values
- ` + "`enter` or `space`" + ` toggle booleans and optional fields
- ` + "`a`" + ` append an item on an array, ` + "`d`" + ` delete,
  ` + "`J`/`K`" + ` move an item down/up
- ` + "`ctrl+s`" + ` submit the staged payload

## Everywhere

- ` + "`esc`" + ` back to the state page
- ` + "`ctrl+c`" + ` quit
`

// renderHelp renders the help markdown for the current width and theme.
// Falls back to the raw markdown if the renderer cannot be built.
func renderHelp(width int, dark bool) string {
	style := "light"
	if dark {
		style = "dark"
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
