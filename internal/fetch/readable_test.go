package fetch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractReadable(t *testing.T) {
	paragraph := "국내 주요 IT 기업들이 올해 하반기 백엔드 개발자 채용 규모를 크게 늘리기로 했다. "
	html := `<html><head><title>채용 확대</title></head><body>
		<div class="menu"><a href="/">홈</a><a href="/it">IT</a></div>
		<div class="story">
			<p>` + strings.Repeat(paragraph, 4) + `</p>
			<p>` + strings.Repeat(paragraph, 4) + `</p>
			<p>` + strings.Repeat(paragraph, 4) + `</p>
		</div>
	</body></html>`

	text, err := ExtractReadable(html, "https://news.example.com/a/1")
	require.NoError(t, err)
	assert.Contains(t, text, "백엔드 개발자 채용")
}
