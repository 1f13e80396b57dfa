package htmlutil

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestVisibleText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html>
<head><title>أوقات الصلاة</title><style>td { color: red }</style></head>
<body>
	<script>var fajr = "00:00";</script>
	<h1>مواقيت   الصلاة</h1>
	<table>
		<tr><td>الفجر</td><td>04:50</td></tr>
		<tr><td>الظهر</td><td>&nbsp;11:43</td></tr>
	</table>
	<!-- العصر 99:99 -->
	<p>&#x200F;نص</p>
</body>
</html>`))
	require.NoError(t, err)

	text := VisibleText(context.Background(), doc.Selection)
	require.Equal(t, "مواقيت الصلاة\nالفجر 04:50\nالظهر 11:43\nنص", text)
}

func TestGetText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<p>a<b>b</b>c</p>`))
	require.NoError(t, err)
	require.Equal(t, "abc", GetText(doc.Find("p").Nodes[0]))
}

func TestClean(t *testing.T) {
	require.Equal(t, "باقة الغربية", Clean("  باقة   \u200fالغربية \n"))
}
