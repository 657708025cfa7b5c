package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/productaware/ecoselect/internal/scoring"
	"github.com/productaware/ecoselect/internal/wizard"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	stepStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	gradeStyles = map[string]lipgloss.Style{
		scoring.LabelExcellent:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		scoring.LabelPass:        lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		scoring.LabelFail:        lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		scoring.LabelMissingData: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
)

func (m *model) View() string {
	if m.loading {
		return titleStyle.Render("ecoselect") + "\n\nLoading filters…\n"
	}

	vm := m.machine.ViewModel()

	var b strings.Builder
	b.WriteString(titleStyle.Render("ecoselect — sustainable material finder"))
	b.WriteString("\n")
	b.WriteString(stepStyle.Render(fmt.Sprintf("step %d of 4 · %s", int(vm.Step), vm.Step)))
	b.WriteString("\n\n")

	if m.degraded {
		b.WriteString(errorStyle.Render("filters unavailable — option lists are empty"))
		b.WriteString("\n\n")
	}

	if vm.Detail != nil {
		b.WriteString(m.renderDetail(vm))
	} else {
		switch vm.Step {
		case wizard.StepCategory:
			b.WriteString(m.renderCategory(vm))
		case wizard.StepMetrics:
			b.WriteString(m.renderMetrics(vm))
		case wizard.StepEmphasis:
			b.WriteString(m.renderEmphasis(vm))
		case wizard.StepResults:
			b.WriteString(m.renderResults(vm))
		}
	}

	if vm.Busy {
		b.WriteString("\n" + dimStyle.Render("computing recommendations…"))
	}
	if vm.Error != "" {
		b.WriteString("\n" + errorStyle.Render(vm.Error))
	}
	if m.status != "" {
		b.WriteString("\n" + errorStyle.Render(m.status))
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(m.helpLine(vm)))
	b.WriteString("\n")
	return b.String()
}

func (m *model) renderCategory(vm wizard.ViewModel) string {
	var b strings.Builder
	b.WriteString("Which category are you looking for?\n\n")
	for i, cat := range vm.Categories {
		marker := "( )"
		if cat == vm.SelectedCategory {
			marker = selectedStyle.Render("(•)")
		}
		b.WriteString(m.renderRow(i, marker+" "+cat))
	}
	return b.String()
}

func (m *model) renderMetrics(vm wizard.ViewModel) string {
	var b strings.Builder
	b.WriteString("Which metrics must be excellent?\n\n")
	checked := map[string]bool{}
	for _, id := range vm.RequiredMetrics {
		checked[id] = true
	}
	for i, metric := range vm.Metrics {
		marker := "[ ]"
		if checked[metric.ID] {
			marker = selectedStyle.Render("[x]")
		}
		b.WriteString(m.renderRow(i, marker+" "+metric.Label))
	}
	return b.String()
}

func (m *model) renderEmphasis(vm wizard.ViewModel) string {
	var b strings.Builder
	b.WriteString("Which of your metrics matters most?\n\n")
	if len(vm.RequiredMetrics) < 2 {
		b.WriteString(dimStyle.Render("Fewer than two metrics selected — no ordering to choose."))
		b.WriteString("\n")
		return b.String()
	}
	for i, id := range vm.RequiredMetrics {
		marker := "( )"
		if id == vm.EmphasisMetric {
			marker = selectedStyle.Render("(•)")
		}
		b.WriteString(m.renderRow(i, marker+" "+m.metricLabel(vm, id)))
	}
	return b.String()
}

func (m *model) renderResults(vm wizard.ViewModel) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Ranked materials — weights %.3f / %.3f / %.3f\n\n",
		vm.Weights.HazardousSubstances, vm.Weights.Circularity, vm.Weights.Certification))
	if len(vm.Results) == 0 {
		b.WriteString(dimStyle.Render("No materials matched your requirements."))
		b.WriteString("\n")
		return b.String()
	}
	for i, item := range vm.Results {
		name := item.ProductName
		if name == "" {
			name = item.ProductCode
		}
		grade := gradeStyles[item.TotalLabel].Render(item.TotalLabel)
		line := fmt.Sprintf("%5.1f  %s  %s — %s", item.TotalScore, grade, name, item.ManufacturerName)
		b.WriteString(m.renderRow(i, line))
	}
	return b.String()
}

func (m *model) renderDetail(vm wizard.ViewModel) string {
	d := vm.Detail
	if d.Loading {
		return dimStyle.Render("Loading material detail…") + "\n"
	}
	if d.Error != "" {
		return errorStyle.Render(d.Error) + "\n"
	}
	item := d.Data

	var b strings.Builder
	b.WriteString(titleStyle.Render(item.ProductName) + "\n")
	b.WriteString(dimStyle.Render(item.ManufacturerName) + "\n\n")
	b.WriteString(fmt.Sprintf("Total:          %5.1f  %s\n", item.TotalScore, gradeStyles[item.TotalLabel].Render(item.TotalLabel)))
	if item.HazardousSubstancesScore != nil {
		b.WriteString(fmt.Sprintf("Hazardous:      %5.1f\n", *item.HazardousSubstancesScore))
	} else {
		b.WriteString("Hazardous:      " + dimStyle.Render("missing data") + "\n")
	}
	b.WriteString(fmt.Sprintf("CLSI:           %5.1f\n", item.CircularityLifespanScore))
	b.WriteString(fmt.Sprintf("Certification:  %5.1f\n", item.CertificationScore))
	if len(item.Categories) > 0 {
		b.WriteString("\nCategories: " + strings.Join(item.Categories, ", ") + "\n")
	}
	if item.ProductDescription != "" {
		b.WriteString("\n" + wrap(item.ProductDescription, m.width-4) + "\n")
	}
	return b.String()
}

func (m *model) renderRow(i int, content string) string {
	prefix := "  "
	if i == m.cursor {
		prefix = cursorStyle.Render("> ")
	}
	return prefix + content + "\n"
}

func (m *model) metricLabel(vm wizard.ViewModel, id string) string {
	for _, metric := range vm.Metrics {
		if metric.ID == id {
			return metric.Label
		}
	}
	return id
}

func (m *model) helpLine(vm wizard.ViewModel) string {
	if vm.Detail != nil {
		return "esc close · q quit"
	}
	switch vm.Step {
	case wizard.StepCategory:
		return "↑/↓ move · enter pick · n next · q quit"
	case wizard.StepMetrics:
		return "↑/↓ move · enter toggle · n next · s skip to results · b back · q quit"
	case wizard.StepEmphasis:
		return "↑/↓ move · enter pick · c clear · n results · s skip emphasis · b back · q quit"
	case wizard.StepResults:
		return "↑/↓ move · enter detail · b back · r restart · q quit"
	}
	return "q quit"
}

func wrap(s string, width int) string {
	if width < 20 {
		width = 20
	}
	words := strings.Fields(s)
	var lines []string
	var line string
	for _, w := range words {
		if line == "" {
			line = w
			continue
		}
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
