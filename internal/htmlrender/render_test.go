package htmlrender_test

import (
	"bytes"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snep/internal/htmlrender"
	"snep/internal/parser"
)

func TestRender(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"text", "hello", "hello"},
		{"tag", "p(hello b(world))", "<p>hello <b>world</b></p>"},
		{"any delimiter", "em[x] i{y}", "<em>x</em> <i>y</i>"},
		{"literal keeps children only", `\c(a(b)\c)`, "a(b)"},
		{"anonymous keeps delimiters", "see (note)", "see (note)"},
		{"attribute-like name", `a(href=[/x] go)`, "<a>href=[/x] go</a>"},
		{"splice", "+(a(1) skipped b(2))", "12"},
		{"splice keeps grandchildren elements", "+(x(i(1)) y)", "<i>1</i>"},
		{"nested html", "ul(li(one)li(two))", "<ul><li>one</li><li>two</li></ul>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			nodes, diags := parser.Parse([]byte(tt.input), "h.snep")
			require.Empty(t, diags)
			assert.Equal(t, tt.want, string(htmlrender.Render(nodes)))
		})
	}
}

func TestWrite(t *testing.T) {
	t.Parallel()
	nodes, _ := parser.Parse([]byte("h1(Title)"), "")
	var buf bytes.Buffer
	require.NoError(t, htmlrender.Write(&buf, nodes))
	assert.Equal(t, "<h1>Title</h1>", buf.String())
}

// вывод должен разбираться HTML-парсером в ожидаемое дерево
func TestRenderParsesAsHTML(t *testing.T) {
	t.Parallel()
	src := "html(body(h1(Title) ul(li(one) li(b(two))) p(see \\c(<raw>\\c))))"
	nodes, diags := parser.Parse([]byte(src), "page.snep")
	require.Empty(t, diags)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlrender.Render(nodes)))
	require.NoError(t, err)

	assert.Equal(t, "Title", doc.Find("body > h1").Text())
	assert.Equal(t, 2, doc.Find("ul > li").Length())
	assert.Equal(t, "two", doc.Find("li b").Text())
	assert.Equal(t, 1, doc.Find("p raw").Length())
}
