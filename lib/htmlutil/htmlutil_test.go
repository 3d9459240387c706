package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const fragment = `<form id="form1">
	<input type="hidden" name="__VIEWSTATE" value="dDwtMTA4" />
	<input type="hidden" name="__EVENTVALIDATION" value="/wEWBAK" />
	<input type="hidden" value="no name" />
	<input type="text" name="txtusername" value="" />
	<div class="cell">  Extra
		Large&nbsp;</div>
	<a href="/Products/Range.aspx?id=12">  Winter  Coats </a>
	<a href="/Products/Range.aspx?id=13">Hats</a>
</form>`

func parse(t testing.TB) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestHiddenInputs(t *testing.T) {
	values := HiddenInputs(parse(t).Selection)
	require.Equal(t, "dDwtMTA4", values.Get("__VIEWSTATE"))
	require.Equal(t, "/wEWBAK", values.Get("__EVENTVALIDATION"))
	require.Len(t, values, 2)
}

func TestSelectionText(t *testing.T) {
	require.Equal(t, "Extra Large", SelectionText(parse(t).Find("div.cell")))
}
