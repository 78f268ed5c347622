package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableDedupAndSuffix(t *testing.T) {
	tbl := NewTable()

	assert.Equal(t, "title", tbl.Add("title", "Hello"))
	assert.Equal(t, "title", tbl.Add("other", "Hello"), "equal values share a name")
	assert.Equal(t, "title_1", tbl.Add("title", "World"))
	assert.Equal(t, "title_2", tbl.Add("title", "Again"))
	assert.Equal(t, 3, tbl.Len())

	v, ok := tbl.Get("title_1")
	require.True(t, ok)
	assert.Equal(t, "World", v)

	name, ok := tbl.Lookup("Again")
	require.True(t, ok)
	assert.Equal(t, "title_2", name)

	_, ok = tbl.Get("missing")
	assert.False(t, ok)
}

func TestTableReserve(t *testing.T) {
	tbl := NewTable()
	assert.Equal(t, "linear", tbl.Reserve("linear"))
	assert.Equal(t, "linear_1", tbl.Reserve("linear"))
	assert.Equal(t, "linear_2", tbl.Reserve("linear"))

	entries := tbl.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "linear", entries[0].Name)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"rgb(255, 0, 0)", "#FF0000"},
		{"rgba(0, 0, 0, 0.5)", "#80000000"},
		{"#abc", "#AABBCC"},
		{"#00ff0080", "#8000FF00"},
		{"WHITE", "#FFFFFF"},
		{"hsl(240, 100%, 50%)", "#0000FF"},
		{"rgb(100% 0% 0% / 100%)", "#FF0000"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseColor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Hex())
		})
	}

	c, err := ParseColor("transparent")
	require.NoError(t, err)
	assert.True(t, c.Transparent())

	_, err = ParseColor("currentcolor")
	assert.Error(t, err)
	_, err = ParseColor("#12345")
	assert.Error(t, err)
}

func TestNearestName(t *testing.T) {
	for in, want := range map[string]string{
		"#FF0000": "red",
		"#FE0101": "red",
		"#000001": "black",
		"#7F7F7F": "gray",
	} {
		c, err := ParseColor(in)
		require.NoError(t, err)
		assert.Equal(t, want, NearestName(c), in)
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Café Menu", "cafe_menu"},
		{"  Sign-up now!  ", "sign_up_now"},
		{"2024 Report", "string_2024_report"},
		{"!!!", "string"},
		{"", "string"},
		{"a very long label that keeps going past the limit", "a_very_long_label_that_keeps_goi"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Slug(tt.in, "string")
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), maxNameLength+len("string_"))
		})
	}
}

func TestSanitizeMarkup(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"plain", "Hello   world", "Hello world"},
		{"inline tags kept", "<div>Hello <strong>World</strong></div>", "Hello <b>World</b>"},
		{"script dropped", "a<script>alert(1)</script>b", "ab"},
		{"line break", "one<br>two", "one<br/>two"},
		{"escaped", "1 < 2 &amp; 3", "1 &lt; 2 &amp; 3"},
		{"unbalanced", "<em>open", "<i>open</i>"},
		{"crossed", "<b><i>x</b>y", "<b><i>x</i></b>y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeMarkup(tt.in))
		})
	}
}

func TestContext(t *testing.T) {
	ctx := NewContext()

	red, ok := ctx.AddColor("rgb(255, 0, 0)")
	require.True(t, ok)
	assert.Equal(t, "red", red)

	same, _ := ctx.AddColor("#ff0000")
	assert.Equal(t, "red", same, "colors dedup by normalized value")

	near, _ := ctx.AddColor("#FE0000")
	assert.Equal(t, "red_1", near)

	_, ok = ctx.AddColor("rgba(0, 0, 0, 0)")
	assert.False(t, ok, "transparent colors are not stored")

	s, ok := ctx.AddString("Hello <b>World</b>")
	require.True(t, ok)
	assert.Equal(t, "hello_world", s)
	v, _ := ctx.Strings.Get(s)
	assert.Equal(t, "Hello <b>World</b>", v)

	_, ok = ctx.AddString("   ")
	assert.False(t, ok)

	a := ctx.AddStyle("Title Text", map[string]string{"textSize": "16sp", "textColor": "@color/red"})
	b := ctx.AddStyle("other", map[string]string{"textColor": "@color/red", "textSize": "16sp"})
	assert.Equal(t, "title_text", a)
	assert.Equal(t, a, b)
	assert.Equal(t, "16sp", ctx.StyleAttrs(a)["textSize"])

	assert.Equal(t, "main_linear", ctx.NewID("main", "linear"))
	assert.Equal(t, "main_linear_1", ctx.NewID("main", "linear"))
	assert.Equal(t, "text", ctx.NewID("", "text"))
}
