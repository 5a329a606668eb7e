package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cortex/pkg/catalog"
	"github.com/matzehuels/cortex/pkg/errors"
	"github.com/matzehuels/cortex/pkg/report"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listCheckedStyle  = lipgloss.NewStyle().Foreground(colorGreen)
)

// =============================================================================
// PlanPicker - Interactive plan selection
// =============================================================================

// Picker steps, in the order they are asked.
const (
	StepObjective = iota
	StepVertical
	StepStage
	StepBudget
	StepPriorities
	stepCount
)

var stepTitles = [stepCount]string{
	StepObjective:  "Business Objective",
	StepVertical:   "Industry Type",
	StepStage:      "Brand Lifecycle Stage",
	StepBudget:     "Investment Level",
	StepPriorities: "Marketing Priorities",
}

// PlanPicker is the bubbletea model that walks the user through the plan
// selections. The first four steps pick one option each; the last one
// toggles any number of priorities.
type PlanPicker struct {
	Options   [stepCount][]string
	Step      int
	Cursor    int
	Chosen    [StepPriorities]string
	Checked   map[string]bool
	Done      bool
	Cancelled bool
}

// NewPlanPicker creates a picker over the catalog's options. Values already
// present in initial are preselected.
func NewPlanPicker(cat *catalog.Catalog, initial report.Selections) PlanPicker {
	m := PlanPicker{Checked: make(map[string]bool)}
	m.Options[StepObjective] = cat.CategoryNames()
	m.Options[StepVertical] = cat.VerticalNames()
	m.Options[StepStage] = slices.Clone(cat.Stages)
	m.Options[StepBudget] = cat.InvestmentNames()
	m.Options[StepPriorities] = cat.PriorityNames()

	m.Chosen = [StepPriorities]string{initial.Objective, initial.Vertical, initial.Stage, initial.Budget}
	for _, p := range initial.Priorities {
		m.Checked[p] = true
	}
	m.Cursor = m.preselected()
	return m
}

// Selections returns the picked values. Priorities keep catalog order.
func (m PlanPicker) Selections() report.Selections {
	sel := report.Selections{
		Objective: m.Chosen[StepObjective],
		Vertical:  m.Chosen[StepVertical],
		Stage:     m.Chosen[StepStage],
		Budget:    m.Chosen[StepBudget],
	}
	for _, p := range m.Options[StepPriorities] {
		if m.Checked[p] {
			sel.Priorities = append(sel.Priorities, p)
		}
	}
	return sel
}

func (m PlanPicker) Init() tea.Cmd {
	return nil
}

func (m PlanPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	opts := m.Options[m.Step]

	switch key.String() {
	case "q", "ctrl+c":
		m.Cancelled = true
		return m, tea.Quit
	case "esc", "backspace":
		if m.Step == StepObjective {
			m.Cancelled = true
			return m, tea.Quit
		}
		m.Step--
		m.Cursor = m.preselected()
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(opts)-1 {
			m.Cursor++
		}
	case " ", "space", "x":
		if m.Step == StepPriorities && len(opts) > 0 {
			p := opts[m.Cursor]
			m.Checked[p] = !m.Checked[p]
		}
	case "enter":
		if m.Step == StepPriorities {
			m.Done = true
			return m, tea.Quit
		}
		if len(opts) == 0 {
			return m, nil
		}
		m.Chosen[m.Step] = opts[m.Cursor]
		m.Step++
		m.Cursor = m.preselected()
	}
	return m, nil
}

// preselected returns the cursor position of the current step's chosen
// value, or 0.
func (m PlanPicker) preselected() int {
	if m.Step >= StepPriorities {
		return 0
	}
	if i := slices.Index(m.Options[m.Step], m.Chosen[m.Step]); i >= 0 {
		return i
	}
	return 0
}

func (m PlanPicker) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Cortex Plan"))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  step %d/%d", m.Step+1, stepCount)))
	b.WriteString("\n\n")

	for i := 0; i < m.Step && i < StepPriorities; i++ {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("%-22s", stepTitles[i])))
		b.WriteString(StyleValue.Render(m.Chosen[i]))
		b.WriteString("\n")
	}
	if m.Step > 0 {
		b.WriteString("\n")
	}

	b.WriteString(StyleHighlight.Render(stepTitles[m.Step]))
	b.WriteString("\n")
	if m.Step == StepPriorities {
		b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  ⏎ finish  esc back  q quit"))
	} else {
		b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  esc back  q quit"))
	}
	b.WriteString("\n\n")

	for i, opt := range m.Options[m.Step] {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := cursor + opt
		if m.Step == StepPriorities {
			box := "[ ] "
			if m.Checked[opt] {
				box = listCheckedStyle.Render("[x] ")
			}
			line = cursor + box + opt
		}
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// runPicker runs the picker on the terminal and returns the selections.
func runPicker(ctx context.Context, cat *catalog.Catalog, initial report.Selections) (report.Selections, error) {
	p := tea.NewProgram(NewPlanPicker(cat, initial), tea.WithContext(ctx), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return report.Selections{}, fmt.Errorf("run picker: %w", err)
	}
	m := final.(PlanPicker)
	if m.Cancelled || !m.Done {
		return report.Selections{}, errors.New(errors.ErrCodeInvalidInput, "selection cancelled")
	}
	return m.Selections(), nil
}
