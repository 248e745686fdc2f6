package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return Parse(c)
}

func TestParseDefaults(t *testing.T) {
	p := paramsFor(t, "")
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)
	assert.Equal(t, 0, p.Offset)
	assert.Empty(t, p.Search)
}

func TestParseExplicit(t *testing.T) {
	p := paramsFor(t, "page=3&per_page=10&search=%20kertas%20")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.PerPage)
	assert.Equal(t, 20, p.Offset)
	assert.Equal(t, "kertas", p.Search, "search is trimmed")
}

func TestParseClamping(t *testing.T) {
	p := paramsFor(t, "page=0&per_page=0")
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)

	p = paramsFor(t, "page=-5&per_page=1000")
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, MaxPerPage, p.PerPage)
}

func TestParseNonNumeric(t *testing.T) {
	p := paramsFor(t, "page=abc&per_page=xyz")
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)
}
