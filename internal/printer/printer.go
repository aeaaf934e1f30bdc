// Package printer writes styled status lines for CLI commands.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/colonyops/sentiview/internal/core/styles"
)

type ctxKey struct{}

// Printer writes one line per call.
type Printer struct {
	out io.Writer
}

func New(out io.Writer) *Printer {
	return &Printer{out: out}
}

// NewContext returns a context carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer stored in ctx, or one writing to stdout.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout)
}

func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.out, fmt.Sprintf(format, args...))
}

func (p *Printer) Successf(format string, args ...any) {
	p.Printf("%s %s", styles.SuccessStyle.Render(styles.IconCheck), fmt.Sprintf(format, args...))
}

func (p *Printer) Infof(format string, args ...any) {
	p.Printf("%s %s", styles.CommandHeaderStyle.Render("•"), fmt.Sprintf(format, args...))
}

func (p *Printer) Errorf(format string, args ...any) {
	p.Printf("%s %s", styles.ErrorStyle.Render(styles.IconCross), fmt.Sprintf(format, args...))
}
