package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/hy4ri/todolists-tui/internal/tui/styles"
	"github.com/hy4ri/todolists-tui/internal/view"
)

// ProgressBar renders the completed share of a list.
type ProgressBar struct {
	bar progress.Model
}

// NewProgressBar creates a bar of the given width.
func NewProgressBar(width int) ProgressBar {
	bar := progress.New(
		progress.WithSolidFill(string(styles.ProgressColor)),
		progress.WithoutPercentage(),
	)
	bar.Width = width
	return ProgressBar{bar: bar}
}

// Width returns the bar width.
func (b ProgressBar) Width() int {
	return b.bar.Width
}

// View renders the bar followed by the "done/total" count.
func (b ProgressBar) View(p view.Progress) string {
	return b.bar.ViewAs(p.Ratio()) + styles.ProgressLabel.Render(fmt.Sprintf(" %d/%d", p.Completed, p.Total))
}
