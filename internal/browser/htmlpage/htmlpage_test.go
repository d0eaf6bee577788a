package htmlpage

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const sample = `<!DOCTYPE html>
<html><head><style>
.upper { text-transform: uppercase; }
#popup { display: none; }
/* comment */
.box > .price { color: green; }
</style></head>
<body>
<div class="box" id="total">
  <div class="upper label">Release Date:</div><div class="date">Sep 14, 2020</div>
  <span class="price">15,50€</span>
  <div hidden class="ghost">ghost</div>
</div>
<div id="popup"><a class="match_name" href="/app/1/">One</a></div>
<input placeholder="search" name="term" value="">
<ul class="list"><li>A</li><li class="focus">B</li><li>C</li></ul>
</body></html>`

func load(t *testing.T) *Page {
	t.Helper()
	p, err := FromHTML("https://store.test/", sample)
	require.NoError(t, err)
	return p
}

func TestParseSelector(t *testing.T) {
	tests := []struct {
		selector string
		wantErr  bool
	}{
		{"div", false},
		{".a.b", false},
		{"#id > .c", false},
		{`input[placeholder="search"]`, false},
		{"div[class=title], h2[class=home_page_content_title]", false},
		{"a[href*=app]", false},
		{"", true},
		{"> div", true},
		{"div >", true},
		{"a:hover", true},
		{"[", true},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			_, err := ParseSelector(tt.selector)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPage_Locate(t *testing.T) {
	p := load(t)

	tests := []struct {
		selector string
		want     int
	}{
		{"div", 5},
		{".box .price", 1},
		{".box > .price", 1},
		{"body > .price", 0},
		{"li", 3},
		{"ul > li.focus", 1},
		{`input[placeholder="search"]`, 1},
		{"a[href^='/app/']", 1},
		{".label, .date", 2},
		{"*", 16},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			got, err := p.Locate(tt.selector).Count()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPage_Navigation(t *testing.T) {
	p := load(t)

	date := p.Contains("*", "Release Date").First().Next()
	text, err := date.Text()
	require.NoError(t, err)
	assert.Equal(t, "Sep 14, 2020", text)

	siblings, err := p.Locate("li.focus").Siblings().Count()
	require.NoError(t, err)
	assert.Equal(t, 2, siblings)

	parentID, err := p.Locate(".price").Parent().Attribute("id")
	require.NoError(t, err)
	assert.Equal(t, "total", parentID)

	children, err := p.Locate(".list").Children().Count()
	require.NoError(t, err)
	assert.Equal(t, 3, children)

	nth, err := p.Locate("li").Nth(2).Text()
	require.NoError(t, err)
	assert.Equal(t, "C", nth)

	filtered, err := p.Locate("li").Filter("B").Count()
	require.NoError(t, err)
	assert.Equal(t, 1, filtered)
}

func TestPage_ContainsReturnsDeepest(t *testing.T) {
	p := load(t)

	got, err := p.Contains("*", "15,50€").Count()
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	cls, err := p.Contains("*", "15,50€").Attribute("class")
	require.NoError(t, err)
	assert.Equal(t, "price", cls)
}

func TestPage_Styles(t *testing.T) {
	p := load(t)

	tests := []struct {
		name     string
		selector string
		property string
		want     string
	}{
		{"stylesheet", ".label", "text-transform", "uppercase"},
		{"default text-transform", ".date", "text-transform", "none"},
		{"stylesheet display", "#popup", "display", "none"},
		{"inherited display default", ".match_name", "display", "inline"},
		{"child combinator rule", ".price", "color", "green"},
		{"hidden attribute", ".ghost", "display", "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Locate(tt.selector).CSS(tt.property)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPage_Visibility(t *testing.T) {
	p := load(t)

	visible, err := p.Locate(".price").Visible()
	require.NoError(t, err)
	assert.True(t, visible)

	visible, err = p.Locate(".match_name").Visible()
	require.NoError(t, err)
	assert.False(t, visible, "child of display:none is hidden")

	visible, err = p.Locate(".missing").Visible()
	require.NoError(t, err)
	assert.False(t, visible)

	popup, err := p.Locate("#popup").(*Selection).Nodes()
	require.NoError(t, err)
	SetStyle(popup[0], "display", "block")

	visible, err = p.Locate(".match_name").Visible()
	require.NoError(t, err)
	assert.True(t, visible)
}

func TestPage_InputHandlers(t *testing.T) {
	p := load(t)

	var seen []string
	require.NoError(t, p.OnInput("input", func(p *Page, n *html.Node) error {
		seen = append(seen, Attr(n, "value"))
		return nil
	}))

	input := p.Locate(`input[placeholder="search"]`)
	require.NoError(t, input.Type("14"))
	require.NoError(t, input.Type("55"))
	require.NoError(t, input.Clear())

	assert.Equal(t, []string{"14", "1455", ""}, seen)
}

func TestPage_ClickActions(t *testing.T) {
	t.Run("hidden element is not clickable", func(t *testing.T) {
		p := load(t)
		err := p.Locate(".match_name").Click()
		assert.ErrorContains(t, err, "not visible")
	})

	t.Run("missing element", func(t *testing.T) {
		p := load(t)
		err := p.Locate(".nope").Click()
		assert.ErrorIs(t, err, ErrNoElement)
	})

	t.Run("handler replaces default", func(t *testing.T) {
		p := load(t)
		require.NoError(t, p.OnClick(".list > li", func(p *Page, n *html.Node) error {
			for _, li := range elementChildren(n.Parent) {
				RemoveClass(li, "focus")
			}
			AddClass(n, "focus")
			return nil
		}))

		require.NoError(t, p.Locate("li").Nth(0).Click())

		focused, err := p.Locate("li").Nth(0).HasClass("focus")
		require.NoError(t, err)
		assert.True(t, focused)
		focused, err = p.Locate("li").Nth(1).HasClass("focus")
		require.NoError(t, err)
		assert.False(t, focused)
	})
}

func TestPage_SetInnerHTML(t *testing.T) {
	p := load(t)

	require.NoError(t, p.SetInnerHTML("#popup", `<a class="match_name">Two</a><a class="match_name">Three</a>`))

	got, err := p.Locate("#popup .match_name").Count()
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	err = p.SetInnerHTML("#nothing", "x")
	assert.ErrorIs(t, err, ErrNoElement)
}

func TestPage_FormsAndLinks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<form id="f" method="POST" action="/submit">
  <select id="year" name="year"><option>1979</option><option value="1980">1980</option></select>
  <input type="hidden" name="token" value="abc">
  <a href="#" id="go">Go</a>
</form>
<a id="plain" href="/plain/">Plain</a>
</body></html>`)
	})
	mux.HandleFunc("/submit", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		http.SetCookie(w, &http.Cookie{Name: "year", Value: r.PostForm.Get("year"), Path: "/"})
		http.Redirect(w, r, "/done/", http.StatusFound)
	})
	mux.HandleFunc("/done/", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("year")
		if err != nil {
			http.Error(w, "no cookie", http.StatusBadRequest)
			return
		}
		fmt.Fprintf(w, `<html><body><p id="year">%s</p></body></html>`, c.Value)
	})
	mux.HandleFunc("/plain/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h1>Plain</h1></body></html>`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	t.Run("anchor inside form submits it", func(t *testing.T) {
		p := New(NewHTTPFetcher())
		require.NoError(t, p.Goto(context.Background(), server.URL+"/"))

		require.NoError(t, p.Locate("#year").Select("1980"))
		value, err := p.Locate("#year").Value()
		require.NoError(t, err)
		assert.Equal(t, "1980", value)

		require.NoError(t, p.Locate("#go").Click())

		assert.True(t, strings.HasSuffix(p.URL(), "/done/"), p.URL())
		text, err := p.Locate("#year").Text()
		require.NoError(t, err)
		assert.Equal(t, "1980", text)
	})

	t.Run("link navigates", func(t *testing.T) {
		p := New(NewHTTPFetcher())
		require.NoError(t, p.Goto(context.Background(), server.URL+"/"))
		require.NoError(t, p.Locate("#plain").Click())

		assert.Equal(t, server.URL+"/plain/", p.URL())
	})

	t.Run("unknown option", func(t *testing.T) {
		p := New(NewHTTPFetcher())
		require.NoError(t, p.Goto(context.Background(), server.URL+"/"))
		assert.Error(t, p.Locate("#year").Select("2050"))
	})
}

func TestPage_GotoWithoutFetcher(t *testing.T) {
	p := New(nil)
	assert.Error(t, p.Goto(context.Background(), "https://store.test/"))
}
