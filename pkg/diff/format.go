package diff

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	insertedColor = color.New(color.FgGreen)
	removedColor  = color.New(color.FgRed)
)

// Fprint renders a classified segment sequence inline: equal text verbatim,
// inserted text green, removed text red. When color output is disabled,
// inserted text is wrapped in {+ +} and removed text in [- -] so the
// classification survives plain terminals and pipes.
func Fprint(w io.Writer, segs []Segment) error {
	for _, s := range segs {
		var err error
		switch s.Kind {
		case Inserted:
			if color.NoColor {
				_, err = fmt.Fprintf(w, "{+%s+}", s.Text)
			} else {
				_, err = insertedColor.Fprint(w, s.Text)
			}
		case Removed:
			if color.NoColor {
				_, err = fmt.Fprintf(w, "[-%s-]", s.Text)
			} else {
				_, err = removedColor.Fprint(w, s.Text)
			}
		default:
			_, err = io.WriteString(w, s.Text)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
