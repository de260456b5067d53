package assistant

import (
	"fmt"
	"strings"
)

// Plain renders a message as terminal text. Markdown emphasis is stripped
// and widgets are drawn in their current state.
func (m Message) Plain() string {
	var b strings.Builder
	if m.Text != "" {
		b.WriteString(strings.ReplaceAll(m.Text, "**", ""))
	}
	if p := m.Pending; p != nil {
		b.WriteString(p.Header())
		expanded, _ := p.Expanded()
		for _, o := range p.Active() {
			fmt.Fprintf(&b, "\n  %s  %-10s %8s  [%s]", o.ID, o.Client, o.Amount, o.Status)
			if o.ID == expanded {
				fmt.Fprintf(&b, "\n      %s", o.Details)
			}
		}
	}
	if d := m.Discrepancy; d != nil {
		switch d.State {
		case DiscrepancyInitial:
			b.WriteString(d.Summary)
			for _, issue := range d.Issues {
				b.WriteString("\n  - " + issue)
			}
		case DiscrepancyRequesting:
			b.WriteString("Describe required changes:")
		default:
			b.WriteString(d.Status)
		}
		if d.Attachment != nil {
			fmt.Fprintf(&b, "\n  [%s] %s", d.Attachment.Name, d.Attachment.Detail)
		}
	}
	if m.Attachment != nil {
		fmt.Fprintf(&b, "\n  [%s] %s", m.Attachment.Name, m.Attachment.Detail)
	}
	return b.String()
}
