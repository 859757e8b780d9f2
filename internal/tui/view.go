package tui

import (
	"fmt"
	"strings"

	"fe/internal/gallery"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	focused  lipgloss.Style
	muted    lipgloss.Style
	errText  lipgloss.Style
	notice   lipgloss.Style
	selected lipgloss.Style
	active   lipgloss.Style
	panel    lipgloss.Style
	overlay  lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		label:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		focused:  lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		errText:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		notice:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("86")),
		active:   lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("205")),
		panel:    lipgloss.NewStyle().Padding(0, 1),
		overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(1, 2),
	}
}

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	leftWidth := m.width * 2 / 5
	rightWidth := m.width - leftWidth

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.panel.Width(leftWidth).Render(m.formView()),
		m.styles.panel.Width(rightWidth).Render(m.galleryView()),
	)
	screen := lipgloss.JoinVertical(lipgloss.Left, main, m.statusView(), m.help.View(m.keys))

	switch {
	case m.errText != "":
		return m.place(m.errorView())
	case m.confirmID != "":
		return m.place(m.confirmView())
	case m.preview != nil:
		return m.place(m.previewView())
	}
	return screen
}

// place centers an overlay on screen. A pending notice is shown beneath the
// overlay body so feedback stays visible while it is open.
func (m Model) place(content string) string {
	if status := m.statusView(); status != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", status)
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		m.styles.overlay.Render(content),
		lipgloss.WithWhitespaceChars(" "),
	)
}

func (m Model) fieldLabel(name string, f focus) string {
	if m.focus == f {
		return m.styles.focused.Render("▸ " + name)
	}
	return m.styles.label.Render("  " + name)
}

func (m Model) formView() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("Generate"))
	b.WriteString("\n\n")
	b.WriteString(m.fieldLabel("Prompt", focusPrompt))
	b.WriteString("\n")
	b.WriteString(m.prompt.View())
	b.WriteString("\n\n")
	b.WriteString(m.fieldLabel("Model", focusModel))
	b.WriteString("  ‹ " + m.model + " ›\n")
	b.WriteString(m.fieldLabel("Aspect ratio", focusRatio))
	b.WriteString("  ‹ " + m.aspectRatio + " ›\n\n")

	if m.loading {
		b.WriteString(m.spinner.View() + " Working...")
	} else {
		b.WriteString(m.styles.muted.Render("ctrl+s generate · ctrl+e improve"))
	}
	return b.String()
}

func (m Model) galleryView() string {
	var b strings.Builder

	b.WriteString(m.fieldLabel("Gallery", focusGallery))
	b.WriteString("\n\n")

	if len(m.cards) == 0 {
		b.WriteString(m.styles.muted.Render("No images yet"))
		b.WriteString("\n")
	}
	for i, card := range m.cards {
		line := fmt.Sprintf("%-12s %s", truncate(card.ID, 12), truncate(card.Prompt, 60))
		if m.focus == focusGallery && i == m.selected {
			line = m.styles.selected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.paginationView())
	return b.String()
}

func (m Model) paginationView() string {
	parts := make([]string, 0, len(m.controls))
	for _, c := range m.controls {
		label := c.Label
		switch {
		case c.Disabled:
			label = m.styles.muted.Render(label)
		case c.Kind == gallery.ControlPage && c.Active:
			label = m.styles.active.Render(label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}

func (m Model) statusView() string {
	if m.notice == "" {
		return ""
	}
	return m.styles.notice.Render(m.notice)
}

func (m Model) errorView() string {
	return fmt.Sprintf("%s\n\n%s\n\n%s",
		m.styles.errText.Bold(true).Render("Error"),
		m.styles.errText.Render(m.errText),
		m.styles.muted.Render("esc dismiss"),
	)
}

func (m Model) confirmView() string {
	return fmt.Sprintf("Delete image %s?\n\n%s",
		m.confirmID,
		m.styles.muted.Render("y confirm · esc cancel"),
	)
}

func (m Model) previewView() string {
	p := m.preview
	var b strings.Builder

	b.WriteString(m.styles.title.Render(p.Card.ID))
	b.WriteString("\n\n")
	b.WriteString(p.Card.Prompt)
	b.WriteString("\n\n")

	if meta := p.Metadata; meta != nil {
		fmt.Fprintf(&b, "%s %s\n", m.styles.label.Render("Model:"), meta.Model)
		fmt.Fprintf(&b, "%s %s (%dx%d)\n", m.styles.label.Render("Ratio:"), meta.AspectRatio, meta.Width, meta.Height)
		if meta.OriginalPrompt != "" && meta.OriginalPrompt != meta.TranslatedPrompt {
			fmt.Fprintf(&b, "%s %s\n", m.styles.label.Render("Original:"), meta.OriginalPrompt)
			fmt.Fprintf(&b, "%s %s\n", m.styles.label.Render("Translated:"), meta.TranslatedPrompt)
		}
		b.WriteString("\n")
	}

	b.WriteString(m.styles.muted.Render(p.Card.URL))
	b.WriteString("\n\n")
	b.WriteString(m.styles.muted.Render("y copy url · esc close"))
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
