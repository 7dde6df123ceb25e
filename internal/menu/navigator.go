// Package menu renders the button menus used to browse the catalog and
// decodes the navigation tokens carried by button clicks.
package menu

import (
	"fmt"
	"strings"

	"github.com/Rrens/lookup-bot/internal/catalog"
	"github.com/Rrens/lookup-bot/internal/domain"
)

const (
	backLabel       = "⬅️ Back"
	browseLabel     = "🔍 Operations"
	aboutLabel      = "ℹ️ About"
	operationsInRow = 2
)

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// Button is one labeled control carrying a navigation token
type Button struct {
	Label string
	Token string
}

// Keyboard is a grid of buttons, one slice per row
type Keyboard [][]Button

// Screen is a rendered menu level
type Screen struct {
	Text     string
	Keyboard Keyboard
	Markdown bool
}

// Navigator builds menu screens from the catalog
type Navigator struct {
	catalog   *catalog.Catalog
	aboutText string
}

// NewNavigator creates a new menu navigator
func NewNavigator(c *catalog.Catalog, aboutText string) *Navigator {
	return &Navigator{catalog: c, aboutText: aboutText}
}

// Welcome renders the root menu shown in answer to /start
func (n *Navigator) Welcome(firstName string) Screen {
	text := fmt.Sprintf(
		"👋 Hello %s!\n\n"+
			"Use the buttons below to run lookups.\n\n"+
			"🔍 *Operations* - pick a lookup from a category.\n"+
			"ℹ️ *About* - information about the bot.",
		markdownEscaper.Replace(firstName),
	)
	return Screen{Text: text, Keyboard: rootKeyboard(), Markdown: true}
}

// Root renders the root menu when navigating back to it
func (n *Navigator) Root(firstName string) Screen {
	return Screen{
		Text:     fmt.Sprintf("👋 Welcome back to the main menu, %s!", firstName),
		Keyboard: rootKeyboard(),
	}
}

// About renders the about panel
func (n *Navigator) About() Screen {
	return Screen{
		Text:     n.aboutText,
		Keyboard: Keyboard{{{Label: backLabel, Token: TokenRoot}}},
		Markdown: true,
	}
}

// Categories renders one button per category, one per row
func (n *Navigator) Categories() Screen {
	cats := n.catalog.Categories()
	kb := make(Keyboard, 0, len(cats)+1)
	for _, cat := range cats {
		kb = append(kb, []Button{{Label: cat.Name, Token: CategoryToken(cat.ID)}})
	}
	kb = append(kb, []Button{{Label: backLabel, Token: TokenRoot}})

	return Screen{Text: "Please choose a category:", Keyboard: kb}
}

// Operations renders the operations of a category two per row. The second
// return value is false when the category does not exist.
func (n *Navigator) Operations(id domain.CategoryID) (Screen, bool) {
	cat, ok := n.catalog.Category(id)
	if !ok {
		return Screen{}, false
	}

	buttons := make([]Button, 0, len(cat.Operations))
	for _, op := range n.catalog.OperationsIn(id) {
		buttons = append(buttons, Button{Label: op.Label(), Token: OperationToken(op.ID)})
	}

	kb := PackRows(buttons, operationsInRow)
	kb = append(kb, []Button{{Label: backLabel, Token: TokenBrowse}})

	return Screen{
		Text:     fmt.Sprintf("%s - Please choose an operation:", cat.Name),
		Keyboard: kb,
	}, true
}

// Navigate renders the screen a navigation action points to. It returns
// false for operation selections and for tokens that lead nowhere.
func (n *Navigator) Navigate(action Action, firstName string) (Screen, bool) {
	switch action.Kind {
	case ActionRoot:
		return n.Root(firstName), true
	case ActionBrowse:
		return n.Categories(), true
	case ActionAbout:
		return n.About(), true
	case ActionCategory:
		return n.Operations(action.Category)
	default:
		return Screen{}, false
	}
}

// PackRows fills rows of the given width in order, leaving any remainder in a
// final short row.
func PackRows(buttons []Button, width int) Keyboard {
	kb := make(Keyboard, 0, (len(buttons)+width-1)/width)
	for start := 0; start < len(buttons); start += width {
		end := min(start+width, len(buttons))
		kb = append(kb, buttons[start:end:end])
	}
	return kb
}

func rootKeyboard() Keyboard {
	return Keyboard{{
		{Label: browseLabel, Token: TokenBrowse},
		{Label: aboutLabel, Token: TokenAbout},
	}}
}
