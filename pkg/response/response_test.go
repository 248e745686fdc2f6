package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuccess(t *testing.T) {
	r := Success(200, map[string]string{"id": "1"})
	assert.Equal(t, "success", r.Status)
	assert.Equal(t, 200, r.StatusCode)
	assert.NotNil(t, r.Data)
	assert.Empty(t, r.Error)
}

func TestError(t *testing.T) {
	r := Error(404, "panjar request not found")
	assert.Equal(t, "error", r.Status)
	assert.Equal(t, 404, r.StatusCode)
	assert.Equal(t, "panjar request not found", r.Error)
	assert.Nil(t, r.Data)
}

func TestListTotalPages(t *testing.T) {
	cases := []struct {
		name    string
		total   int64
		perPage int
		want    int64
	}{
		{"exact multiple", 40, 20, 2},
		{"partial last page", 41, 20, 3},
		{"single short page", 5, 20, 1},
		{"empty", 0, 20, 0},
		{"zero per page", 10, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := List(nil, tc.total, 1, tc.perPage)
			assert.Equal(t, tc.want, l.Meta.TotalPages)
			assert.Equal(t, tc.total, l.Meta.Total)
			assert.Equal(t, tc.perPage, l.Meta.PerPage)
		})
	}
}
