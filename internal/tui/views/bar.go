package views

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/Dallionking/bubblebar/internal/bar"
	"github.com/Dallionking/bubblebar/internal/tui/components"
	"github.com/Dallionking/bubblebar/internal/tui/models"
	"github.com/Dallionking/bubblebar/internal/tui/styles"
)

// RunBar launches the full-screen bubble bar with mouse tracking. It blocks
// until the user quits or ctx is done, and returns the final model so the
// caller can persist its state.
func RunBar(ctx context.Context, model models.BarModel) (models.BarModel, error) {
	zone.NewGlobal()

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return model, fmt.Errorf("running bubble bar: %w", err)
	}
	if m, ok := final.(models.BarModel); ok {
		return m, nil
	}
	return model, nil
}

// RenderOnce renders one settled frame of the bar to a string, for
// `bubblebar state --preview` or piping to other tools.
func RenderOnce(c *bar.Controller, zones components.Zones, width, height int) string {
	if width < 20 {
		width = 80
	}
	if height < 4 {
		height = 12
	}
	now := time.Now()
	c.Resize(float64(width), float64(height)*components.RowUnits, now)
	for i := 0; c.Tick(now) && i < 1000; i++ {
		now = now.Add(16 * time.Millisecond)
	}

	v := c.View()
	title := styles.Title.Render(components.Logo) + "  " +
		styles.Label.Render(fmt.Sprintf("%s, docked %s, %d bubbles", v.State, v.Location, c.Registry().BubbleCount()))
	stage := components.Stage{Zones: zones}.Render(v, width, height)
	return lipgloss.JoinVertical(lipgloss.Left, title, styles.Divider(width), stage)
}
