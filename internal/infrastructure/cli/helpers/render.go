package helpers

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
)

// Renderer prints markdown answers. On a terminal they are styled with
// glamour; piped output stays raw markdown.
type Renderer struct {
	out  io.Writer
	term *glamour.TermRenderer
}

// NewRenderer builds a renderer for out. Styling is enabled only when out is
// a terminal and raw is false.
func NewRenderer(out io.Writer, raw bool) *Renderer {
	r := &Renderer{out: out}
	if raw || !IsTerminal(out) {
		return r
	}
	term, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err == nil {
		r.term = term
	}
	return r
}

// Markdown writes one answer followed by a newline.
func (r *Renderer) Markdown(md string) {
	if r.term != nil {
		if styled, err := r.term.Render(md); err == nil {
			fmt.Fprint(r.out, styled)
			return
		}
	}
	fmt.Fprint(r.out, strings.TrimRight(md, "\n")+"\n")
}

// Styled reports whether glamour output is active.
func (r *Renderer) Styled() bool {
	return r.term != nil
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
