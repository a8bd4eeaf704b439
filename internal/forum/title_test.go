package forum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTitlePrefersDocumentTitle(t *testing.T) {
	doc := `<html><head>
		<title>文档标题</title>
		<meta property="og:title" content="OG 标题">
	</head><body><h1>正文标题</h1></body></html>`

	assert.Equal(t, "文档标题", ExtractTitle(doc))
}

func TestExtractTitleFallsBackToOpenGraph(t *testing.T) {
	doc := `<html><head>
		<title>   </title>
		<meta property="og:title" content="OG 标题">
	</head><body><h1>正文标题</h1></body></html>`

	assert.Equal(t, "OG 标题", ExtractTitle(doc))
}

func TestExtractTitleFallsBackToHeading(t *testing.T) {
	doc := `<html><body><h1>正文标题</h1><h1>第二个</h1></body></html>`

	assert.Equal(t, "正文标题", ExtractTitle(doc))
}

func TestExtractTitleDecodesEntities(t *testing.T) {
	doc := `<html><head><title>&quot;爱丽丝&quot; &amp; &lt;白兔&gt;</title></head></html>`

	assert.Equal(t, `"爱丽丝" & <白兔>`, ExtractTitle(doc))
}

func TestExtractTitleStripsEmbeddedMarkup(t *testing.T) {
	doc := `<html><body><h1>标题 <span class="badge">热</span></h1></body></html>`

	assert.Equal(t, "标题 热", ExtractTitle(doc))
}

func TestExtractTitleEmptyDocument(t *testing.T) {
	assert.Equal(t, "", ExtractTitle(""))
	assert.Equal(t, "", ExtractTitle("<html><body><p>无标题</p></body></html>"))
}
