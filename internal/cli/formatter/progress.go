package formatter

import (
	"fmt"
	"strings"

	"github.com/deeg9/rfqengine/internal/engine"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderScore renders a completeness meter like [████░░░░] 45/100 ● NEEDS DETAIL.
// The bar takes the band's color.
func RenderScore(score engine.CompletenessScore, width int) string {
	if width < 2 {
		width = 2
	}
	pct := float64(score.Value) / 100

	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	return fmt.Sprintf("[%s] %3d/100 %s",
		BandColor(score.Band).Render(bar), score.Value, BandIndicator(score.Band))
}

// RenderStepper renders wizard position like "○ ● ◉ ○": filled for
// completed steps, a ring for pending ones, highlighted at the cursor.
func RenderStepper(total, current int, completed func(int) bool) string {
	marks := make([]string, 0, total)
	for i := 0; i < total; i++ {
		var mark string
		switch {
		case i == current:
			mark = StyleHeader.Render("◉")
		case completed(i):
			mark = StyleGreen.Render("●")
		default:
			mark = StyleDim.Render("○")
		}
		marks = append(marks, mark)
	}
	return strings.Join(marks, " ")
}
