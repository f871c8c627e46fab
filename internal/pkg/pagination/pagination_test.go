package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/RAAS/internal/pkg/apperror"
)

var testColumns = SortColumns{"id": "F_00", "startDate": "F_03"}

func parse(t *testing.T, query string) (Request, error) {
	t.Helper()

	var (
		got    Request
		gotErr error
	)
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got, gotErr = FromQuery(c, testColumns, "id")
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/"+query, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	return got, gotErr
}

func TestFromQueryDefaults(t *testing.T) {
	req, err := parse(t, "")
	require.NoError(t, err)
	assert.Equal(t, Request{Page: 0, Size: DefaultSize, SortBy: "F_00", SortDir: "asc"}, req)
}

func TestFromQueryExplicit(t *testing.T) {
	req, err := parse(t, "?page=2&size=5&sortBy=startDate&sortDir=DESC")
	require.NoError(t, err)
	assert.Equal(t, Request{Page: 2, Size: 5, SortBy: "F_03", SortDir: "desc"}, req)
	assert.Equal(t, 10, req.Offset())
}

func TestFromQueryClampsSize(t *testing.T) {
	req, err := parse(t, "?size=1000")
	require.NoError(t, err)
	assert.Equal(t, MaxSize, req.Size)
}

func TestFromQueryRejectsBadInput(t *testing.T) {
	for _, query := range []string{"?page=-1", "?page=x", "?size=0", "?sortBy=password", "?sortDir=up"} {
		t.Run(query, func(t *testing.T) {
			_, err := parse(t, query)
			assert.True(t, apperror.IsKind(err, apperror.KindValidation), "got %v", err)
		})
	}
}

func TestNewPage(t *testing.T) {
	req := Request{Page: 1, Size: 2}
	p := NewPage([]int{3, 4}, req, 5)

	assert.Equal(t, 3, p.TotalPages)
	assert.False(t, p.First)
	assert.False(t, p.Last)

	last := NewPage([]int{5}, Request{Page: 2, Size: 2}, 5)
	assert.True(t, last.Last)

	empty := NewPage[int](nil, Request{Page: 0, Size: 20}, 0)
	assert.NotNil(t, empty.Content)
	assert.Equal(t, 0, empty.TotalPages)
	assert.True(t, empty.First)
	assert.True(t, empty.Last)
}

func TestMap(t *testing.T) {
	p := NewPage([]int{1, 2}, Request{Page: 0, Size: 2}, 4)
	mapped := Map(p, func(i int) string { return string(rune('a' + i)) })

	assert.Equal(t, []string{"b", "c"}, mapped.Content)
	assert.Equal(t, int64(4), mapped.TotalElements)
	assert.Equal(t, 2, mapped.TotalPages)
}
