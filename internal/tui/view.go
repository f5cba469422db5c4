package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/timvw/prompt-selector/internal/model"
	"github.com/timvw/prompt-selector/internal/session"
)

const (
	sliderWidth = 20
	// Below this width cards and panels stack vertically.
	wideLayout = 100
	bannerText = "✓ Preference recorded successfully"
)

func (m *tuiModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sections := []string{
		m.viewHeader(),
		m.viewStats(),
		m.viewPrompt(),
		m.viewParams(),
	}
	if m.session.HasResponses() {
		sections = append(sections, m.viewResponses())
	}
	sections = append(sections, m.viewStatusLine(), m.help.View(m.keys))

	return m.withStars(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// withStars fills the space around the content with the starfield.
func (m *tuiModel) withStars(content string) string {
	if m.stars == nil {
		return content
	}
	lines := strings.Split(content, "\n")
	for len(lines) < m.height {
		lines = append(lines, "")
	}
	for y, line := range lines {
		lines[y] = line + m.stars.Row(y, lipgloss.Width(line))
	}
	return strings.Join(lines, "\n")
}

func (m *tuiModel) viewHeader() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Prompt Selector"))
	b.WriteString("  ")
	b.WriteString(m.styles.dim.Render("model: " + m.modelLabel()))
	b.WriteString("  ")
	b.WriteString(m.styles.dim.Render("ctrl+e=export training data"))
	return b.String()
}

func (m *tuiModel) modelLabel() string {
	if name := m.session.ModelName(); name != "" {
		return name
	}
	return model.DefaultModelName
}

func (m *tuiModel) viewStats() string {
	s := m.session.Stats()
	tiles := []struct {
		label string
		value func(*model.Stats) int
	}{
		{"Total Prompts", func(s *model.Stats) int { return s.TotalPrompts }},
		{"Training Pairs", func(s *model.Stats) int { return s.TrainingPairs }},
		{"Preference A", func(s *model.Stats) int { return s.PreferenceA }},
		{"Preference B", func(s *model.Stats) int { return s.PreferenceB }},
	}

	tileWidth := 18
	if m.width > 0 {
		tileWidth = max(14, min(24, m.width/4-2))
	}
	rendered := make([]string, len(tiles))
	for i, t := range tiles {
		value := "–"
		if s != nil {
			value = strconv.Itoa(t.value(s))
		}
		body := m.styles.tileValue.Render(value) + "\n" + m.styles.tileLabel.Render(t.label)
		rendered[i] = m.styles.tile.Width(tileWidth).Render(body)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *tuiModel) viewPrompt() string {
	style := m.styles.prompt
	if m.focus == focusPrompt {
		style = m.styles.promptFocused
	}
	title := m.styles.text.Bold(true).Render("Enter Your Prompt")
	switch m.session.State() {
	case session.StateGenerating:
		title += "  " + m.spinner.View() + m.styles.busy.Render(" Generating...")
	case session.StateAwaitingSelection:
		title += "  " + m.styles.dim.Render("(choose a response to continue)")
	}
	return style.Render(title + "\n" + m.prompt.View())
}

func (m *tuiModel) viewParams() string {
	a := m.viewParamPanel(session.VariantA, m.focus == focusParamsA)
	b := m.viewParamPanel(session.VariantB, m.focus == focusParamsB)
	if m.width < wideLayout {
		return lipgloss.JoinVertical(lipgloss.Left, a, b)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, a, " ", b)
}

func (m *tuiModel) viewParamPanel(v session.Variant, focused bool) string {
	p := m.session.Params(v)
	title := m.styles.variantA.Render("Model A")
	if v == session.VariantB {
		title = m.styles.variantB.Render("Model B")
	}
	if !m.advanced {
		title += m.styles.dim.Render("  (ctrl+a: advanced)")
	}

	var rows []string
	rows = append(rows, title)
	for i, f := range m.visibleFields() {
		marker := "  "
		if focused && i == m.fieldCursor[v] {
			marker = m.styles.cursor.Render("› ")
		}
		rows = append(rows, fmt.Sprintf("%s%-18s %s %s",
			marker, f.Label(), m.slider(p, f), m.styles.text.Render(p.Format(f))))
	}

	style := m.styles.panel
	if focused {
		style = m.styles.panelFocused
	}
	return style.Render(strings.Join(rows, "\n"))
}

// slider draws a horizontal bar for the field's position within its range.
func (m *tuiModel) slider(p model.SamplingParams, f model.Field) string {
	filled := int(model.RangeOf(f).Fraction(p.Get(f))*sliderWidth + 0.5)
	return m.styles.sliderFill.Render(strings.Repeat("━", filled)) +
		m.styles.sliderEmpty.Render(strings.Repeat("─", sliderWidth-filled))
}

func (m *tuiModel) viewResponses() string {
	choice := m.session.Choice()
	subtitle := "Choose which response you prefer, or mark as tie"
	if choice != "" {
		subtitle = "Preference recorded. Try another prompt!"
	}
	header := m.styles.text.Bold(true).Render("Compare Responses") + "  " + m.styles.dim.Render(subtitle)

	respA, respB := m.session.Responses()
	wide := m.width >= wideLayout
	cardWidth := max(m.width-4, 20)
	if wide {
		cardWidth = max(m.width/2-3, 20)
	}
	a := m.viewCard(session.VariantA, respA, cardWidth)
	b := m.viewCard(session.VariantB, respB, cardWidth)

	var cards string
	if wide {
		cards = lipgloss.JoinHorizontal(lipgloss.Top, a, " ", b)
	} else {
		cards = lipgloss.JoinVertical(lipgloss.Left, a, b)
	}

	var footer string
	switch {
	case m.session.CanSelect():
		footer = m.styles.dim.Render("a=prefer A  b=prefer B  t=Mark as Tie")
	case choice != "":
		footer = m.styles.dim.Render("n=Try Another Prompt")
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, cards, footer)
}

func (m *tuiModel) viewCard(v session.Variant, text string, width int) string {
	choice := m.session.Choice()
	letter := model.Preference(v.String())

	style := m.styles.card
	label := m.styles.variantA.Render("Response A")
	if v == session.VariantB {
		label = m.styles.variantB.Render("Response B")
	}
	switch {
	case choice == letter:
		style = m.styles.cardSelected
		label += "  " + m.styles.banner.Render("✓ Selected")
	case choice == model.PreferenceTie:
		style = m.styles.cardSelected
		label += "  " + m.styles.banner.Render("= Tie")
	case choice != "":
		style = m.styles.cardRejected
	}
	label += "  " + m.styles.dim.Render("temp "+m.session.Params(v).Format(model.FieldTemperature))

	// Border and padding take four columns.
	inner := width - 4
	body := m.md.Render(text, inner)
	return style.Width(width - 2).Render(label + "\n" + body)
}

func (m *tuiModel) viewStatusLine() string {
	switch {
	case m.session.Alert() != "":
		return m.styles.err.Render(m.session.Alert()) + m.styles.dim.Render("  (esc to dismiss)")
	case m.session.BannerVisible():
		return m.styles.banner.Render(bannerText)
	case m.message != "":
		return m.styles.status.Render(m.message)
	}
	return ""
}
