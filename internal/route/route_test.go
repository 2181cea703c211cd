package route

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		path string
		want Route
	}{
		{path: "/", want: Root},
		{path: "", want: Root},
		{path: "/chat/abc123", want: ChatRoute("abc123")},
		{path: "/chat/abc123/", want: ChatRoute("abc123")},
		{path: "/chat/a%20b", want: ChatRoute("a b")},
		{path: "/chat/", want: Root},
		{path: "/chat/a/b", want: Root},
		{path: "/analytics", want: Route{Kind: Analytics}},
		{path: "/documents?sort=name", want: Route{Kind: Documents}},
		{path: "/settings/", want: Route{Kind: Settings}},
		{path: "/unknown", want: Root},
		{path: "/chat", want: Root},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Parse(tt.path); got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}
}

func TestPathRoundTrip(t *testing.T) {
	routes := []Route{
		Root,
		ChatRoute("abc123"),
		ChatRoute("with space"),
		{Kind: Analytics},
		{Kind: Documents},
		{Kind: Settings},
	}

	for _, r := range routes {
		if got := Parse(r.Path()); got != r {
			t.Errorf("Parse(%q) = %+v, want %+v", r.Path(), got, r)
		}
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		route Route
		want  string
	}{
		{route: Root, want: "Chat"},
		{route: ChatRoute("abc"), want: DefaultTitle},
		{route: Route{Kind: Analytics}, want: "Analytics"},
		{route: Route{Kind: Documents}, want: "Documents"},
		{route: Route{Kind: Settings}, want: "Settings"},
	}

	for _, tt := range tests {
		if got := tt.route.Title(); got != tt.want {
			t.Errorf("Title() for %s = %q, want %q", tt.route.Path(), got, tt.want)
		}
	}
}

func TestNavItemLabels(t *testing.T) {
	want := []string{"Chat", "Analytics", "Documents", "Settings"}
	if len(NavItems) != len(want) {
		t.Fatalf("Expected %d nav items, got %d", len(want), len(NavItems))
	}
	for i, item := range NavItems {
		if item.Label() != want[i] {
			t.Errorf("Nav item %d: expected %q, got %q", i, want[i], item.Label())
		}
	}
}
