package renderer

import (
	"fmt"
	"io"

	"dentalcare/internal/conversation"
)

// Console renders the dialog on a terminal.
type Console struct {
	out io.Writer
}

// NewConsole creates a console renderer writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) DisplayMessage(role conversation.Role, text string) {
	if role == conversation.RoleUser {
		// The user already sees their own typed line.
		return
	}
	fmt.Fprintf(c.out, "\nDr. CareBot: %s\n", text)
}

func (c *Console) OfferChoices(labels []string) {
	for _, l := range labels {
		fmt.Fprintf(c.out, "  [%s] %s\n", IconFor(l), l)
	}
}

func (c *Console) SetStatus(text string) {
	fmt.Fprintf(c.out, "-- %s\n", text)
}

func (c *Console) ShowCalendarLink(url string) {
	fmt.Fprintf(c.out, "Add to calendar: %s\n", url)
}

func (c *Console) HideCalendarLink() {}
