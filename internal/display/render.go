// Package display renders the relay bank as a text frame on a terminal.
package display

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/sweeney/relay-sim/internal/relay"
)

// fieldWidth is the width of one channel label in the frame.
const fieldWidth = 4

// Renderer builds frames for a fixed set of channel labels.
type Renderer struct {
	labels    []string
	highlight *color.Color
	plain     *color.Color
}

// NewRenderer creates a Renderer. Labels are shown in channel order; ON channels
// are highlighted (bold red), OFF channels plain (white). With useColor false the
// frame contains no escape sequences.
func NewRenderer(labels []string, useColor bool) *Renderer {
	hi := color.New(color.Bold, color.FgRed)
	pl := color.New(color.FgWhite)
	if useColor {
		hi.EnableColor()
		pl.EnableColor()
	} else {
		hi.DisableColor()
		pl.DisableColor()
	}
	return &Renderer{
		labels:    labels,
		highlight: hi,
		plain:     pl,
	}
}

// Render returns the frame for a snapshot:
//
//	separator (4*(N+1) dashes)
//	one right-justified 4-wide label per channel
//	separator
//	blank line
func (r *Renderer) Render(states []relay.State) string {
	sep := strings.Repeat("-", fieldWidth*(len(states)+1))

	var sb strings.Builder
	sb.WriteString(sep)
	sb.WriteByte('\n')
	for i, s := range states {
		field := fmt.Sprintf("%*s", fieldWidth, r.label(i))
		if s == relay.On {
			sb.WriteString(r.highlight.Sprint(field))
		} else {
			sb.WriteString(r.plain.Sprint(field))
		}
	}
	sb.WriteByte('\n')
	sb.WriteString(sep)
	sb.WriteString("\n\n")
	return sb.String()
}

func (r *Renderer) label(i int) string {
	if i < len(r.labels) {
		return r.labels[i]
	}
	return strconv.Itoa(i + 1)
}
