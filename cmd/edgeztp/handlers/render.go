package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/edgeztp/internal/provisioning"
	"github.com/imamik/edgeztp/internal/roles"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	greenStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	redStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

// painter renders text with a style only when output is a terminal.
type painter bool

func (p painter) paint(style lipgloss.Style, s string) string {
	if p {
		return style.Render(s)
	}
	return s
}

// renderReport produces the run summary.
func renderReport(r *provisioning.Report, styled bool) string {
	p := painter(styled)
	var b strings.Builder

	hostname := "unknown instance"
	if r.Instance != nil {
		hostname = r.Instance.Hostname
	}

	b.WriteString("\n")
	b.WriteString(p.paint(titleStyle, fmt.Sprintf("  edgeztp %s: %s", r.Mode, hostname)))
	b.WriteString("\n")
	b.WriteString(p.paint(dimStyle, "  run "+r.RunID))
	b.WriteString("\n")

	b.WriteString("\n")
	b.WriteString(p.paint(sectionStyle, "  Roles"))
	b.WriteString("\n")
	for _, role := range roles.KnownRoles() {
		addr, ok := r.Roles[role]
		if !ok {
			addr = p.paint(dimStyle, "-")
		}
		fmt.Fprintf(&b, "    %-6s %s\n", role, addr)
	}

	if len(r.Updates) > 0 {
		b.WriteString("\n")
		b.WriteString(p.paint(sectionStyle, "  Interface updates"))
		b.WriteString("\n")
		for _, u := range r.Updates {
			fmt.Fprintf(&b, "    %-6s %s\n", u.Name, u.MAC)
		}
	}

	if r.Registration != nil {
		b.WriteString("\n")
		b.WriteString(p.paint(sectionStyle, "  Registration"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "    account %s, site %s", r.Registration.Account, r.Registration.Site)
		if r.Registration.Group != "" {
			fmt.Fprintf(&b, ", group %s", r.Registration.Group)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.paint(sectionStyle, "  Phases"))
	b.WriteString("\n")
	for _, ph := range r.Phases {
		status := p.paint(greenStyle, "ok")
		if ph.Error != "" {
			status = p.paint(redStyle, "failed")
		}
		fmt.Fprintf(&b, "    %-20s %-8s %s\n", ph.Name, ph.Duration, status)
	}

	b.WriteString("\n")
	if r.Success {
		b.WriteString(p.paint(greenStyle, "  Result: success"))
	} else {
		b.WriteString(p.paint(redStyle, "  Result: failed: "+r.Error))
	}
	b.WriteString("\n")

	return b.String()
}
