// internal/adapters/in/cli/presenter.go
package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"storefront/internal/application/checkout"
	"storefront/internal/domain/common"
	"storefront/internal/domain/product"
)

// EmptyCartMessage is shown instead of an item list.
const EmptyCartMessage = "Your Cart Is Empty"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	badgeStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1).
			Background(lipgloss.Color("4")).Foreground(lipgloss.Color("15"))
)

// printPresenter shows checkout notifications and navigation on a terminal.
type printPresenter struct {
	out io.Writer
}

func (p printPresenter) Navigate(path string) {
	fmt.Fprintln(p.out, mutedStyle.Render("→ "+path))
}

func (p printPresenter) Notify(level checkout.Level, message string) {
	style := errorStyle
	switch level {
	case checkout.LevelSuccess:
		style = successStyle
	case checkout.LevelWarning:
		style = warningStyle
	}
	fmt.Fprintln(p.out, style.Render(message))
}

// cartBadge renders the item counter shown next to "Cart".
func cartBadge(n int) string {
	return "Cart " + badgeStyle.Render(strconv.Itoa(n))
}

// renderCart renders the resolved cart; missing products show their id only.
func renderCart(owner string, items []product.ResolvedItem, totalCents int64) string {
	var b strings.Builder
	header := cartBadge(len(items))
	if owner != "" {
		header += mutedStyle.Render("  " + owner)
	} else {
		header += mutedStyle.Render("  guest (not saved)")
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")

	if len(items) == 0 {
		b.WriteString(EmptyCartMessage)
		b.WriteString("\n")
		return b.String()
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "ID", "NAME", "PRICE")
	for i, it := range items {
		name, price := it.Name, common.FormatUSD(common.ToCents(it.Price))
		if !it.Found {
			name, price = mutedStyle.Render("(no longer available)"), "-"
		}
		t.Row(strconv.Itoa(i+1), it.ID, name, price)
	}
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Total: " + common.FormatUSD(totalCents)))
	b.WriteString("\n")
	return b.String()
}
