// Package transcript renders the messages of a finished thread to the console.
package transcript

import (
	"fmt"
	"io"
	"iter"

	"github.com/fatih/color"

	"github.com/hupe1980/agenttriage/core"
)

// Options configures a Printer.
type Options struct {
	// Color enables coloured role labels. Callers decide based on whether the
	// output is a terminal.
	Color bool
}

// Printer writes role-labelled message texts.
type Printer struct {
	out   io.Writer
	roles map[core.MessageRole]*color.Color
	other *color.Color
}

// NewPrinter returns a Printer writing to out.
func NewPrinter(out io.Writer, optFns ...func(o *Options)) *Printer {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	p := &Printer{
		out: out,
		roles: map[core.MessageRole]*color.Color{
			core.RoleUser:      color.New(color.FgCyan, color.Bold),
			core.RoleAssistant: color.New(color.FgGreen, color.Bold),
		},
		other: color.New(color.Bold),
	}
	for _, c := range p.all() {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *Printer) all() []*color.Color {
	return []*color.Color{p.roles[core.RoleUser], p.roles[core.RoleAssistant], p.other}
}

// Print drains seq and writes "<role>:\n<last text>\n\n" for each message
// that carries text. It returns the printed messages; iteration stops at the
// first error, keeping what was printed so far.
func (p *Printer) Print(seq iter.Seq2[core.Message, error]) ([]core.Message, error) {
	var printed []core.Message
	for msg, err := range seq {
		if err != nil {
			return printed, fmt.Errorf("failed to list messages: %w", err)
		}
		text, ok := msg.LastText()
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(p.out, "%s:\n%s\n\n", p.label(msg.Role), text); err != nil {
			return printed, err
		}
		printed = append(printed, msg)
	}
	return printed, nil
}

func (p *Printer) label(role core.MessageRole) string {
	c, ok := p.roles[role]
	if !ok {
		c = p.other
	}
	return c.Sprint(string(role))
}
