package route

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind names a screen of the client
type Kind int

const (
	Chat Kind = iota
	Analytics
	Documents
	Settings
)

const (
	RootPath      = "/"
	chatPrefix    = "/chat/"
	analyticsPath = "/analytics"
	documentsPath = "/documents"
	settingsPath  = "/settings"

	// DefaultTitle is the header shown when no nav item matches
	DefaultTitle = "Dashboard"
)

// Route is a parsed navigation target. ChatID is only meaningful for Chat;
// an empty ChatID is the root, which starts a new chat.
type Route struct {
	Kind   Kind
	ChatID string
}

// Root is the new-chat route
var Root = Route{Kind: Chat}

// ChatRoute returns the route that resumes chat id
func ChatRoute(id string) Route {
	return Route{Kind: Chat, ChatID: id}
}

// Parse maps a path to a route. Anything unrecognised is the root.
func Parse(path string) Route {
	p := path
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}

	switch p {
	case "", RootPath:
		return Root
	case analyticsPath:
		return Route{Kind: Analytics}
	case documentsPath:
		return Route{Kind: Documents}
	case settingsPath:
		return Route{Kind: Settings}
	}

	if strings.HasPrefix(p, chatPrefix) {
		raw := strings.TrimPrefix(p, chatPrefix)
		if raw == "" || strings.Contains(raw, "/") {
			return Root
		}
		id, err := url.PathUnescape(raw)
		if err != nil || id == "" {
			return Root
		}
		return ChatRoute(id)
	}

	return Root
}

// Path formats the route back into its path
func (r Route) Path() string {
	switch r.Kind {
	case Analytics:
		return analyticsPath
	case Documents:
		return documentsPath
	case Settings:
		return settingsPath
	}
	if r.ChatID == "" {
		return RootPath
	}
	return chatPrefix + url.PathEscape(r.ChatID)
}

// NavItem is one entry of the navigation bar
type NavItem struct {
	Name  string
	Route Route
}

// NavItems lists the navigation bar in display order
var NavItems = []NavItem{
	{Name: "chat", Route: Root},
	{Name: "analytics", Route: Route{Kind: Analytics}},
	{Name: "documents", Route: Route{Kind: Documents}},
	{Name: "settings", Route: Route{Kind: Settings}},
}

// Label is the display name of the item
func (n NavItem) Label() string {
	// Casers keep state and are not shared
	return cases.Title(language.English).String(n.Name)
}

// Title is the header for the route: the matching nav item name, title-cased.
// Only the root path matches the chat item, so a resumed chat shows the
// default title.
func (r Route) Title() string {
	path := r.Path()
	for _, item := range NavItems {
		if item.Route.Path() == path {
			return item.Label()
		}
	}
	return DefaultTitle
}
