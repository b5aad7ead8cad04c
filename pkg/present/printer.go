package present

import (
	"fmt"
	"github.com/fatih/color"
	"github.com/ghjm/showip/pkg/resolve"
	"github.com/mattn/go-isatty"
	"io"
	"os"
)

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Printer writes presented addresses to an output stream
type Printer struct {
	out   io.Writer
	color bool
	v4    *color.Color
	v6    *color.Color
}

// NewPrinter creates a Printer.  With ColorAuto, the family tags are colored only when out
// is a terminal and the color library has not been disabled (NO_COLOR, TERM=dumb).
func NewPrinter(out io.Writer, colorMode string) (*Printer, error) {
	p := &Printer{
		out: out,
		v4:  color.New(color.FgGreen),
		v6:  color.New(color.FgCyan),
	}
	switch colorMode {
	case "", ColorAuto:
		p.color = isTerminal(out) && !color.NoColor
	case ColorAlways:
		p.color = true
		// The library disables itself when os.Stdout is not a terminal, which is not what ColorAlways means
		p.v4.EnableColor()
		p.v6.EnableColor()
	case ColorNever:
		p.color = false
	default:
		return nil, fmt.Errorf("invalid color mode: %s", colorMode)
	}
	return p, nil
}

var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Print writes the header and one line per record.  Nothing is written if any record cannot be presented.
func (p *Printer) Print(hostname string, records []resolve.Address) error {
	var lines []string
	var err error
	if p.color {
		lines, err = p.colorLines(records)
	} else {
		lines, err = Present(records)
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(p.out, Header(hostname))
	if err != nil {
		return err
	}
	for _, line := range lines {
		_, err = fmt.Fprintln(p.out, line)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) colorLines(records []resolve.Address) ([]string, error) {
	lines := make([]string, 0, len(records))
	for _, rec := range records {
		tag, err := Tag(rec)
		if err != nil {
			return nil, err
		}
		text, err := Format(rec)
		if err != nil {
			return nil, err
		}
		c := p.v4
		if rec.Family() == resolve.IPv6 {
			c = p.v6
		}
		lines = append(lines, fmt.Sprintf("  %s: %s", c.Sprint(tag), text))
	}
	return lines, nil
}
