package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T, target string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestFromQuery(t *testing.T) {
	cases := []struct {
		name   string
		target string
		want   Params
	}{
		{"defaults", "/api/recipes", Params{Limit: DefaultLimit}},
		{"explicit", "/api/recipes?limit=12&offset=24", Params{Limit: 12, Offset: 24}},
		{"clamped", "/api/recipes?limit=9999", Params{Limit: MaxLimit}},
		{"garbage", "/api/recipes?limit=abc&offset=-3", Params{Limit: DefaultLimit}},
		{"zero limit", "/api/recipes?limit=0", Params{Limit: DefaultLimit}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FromQuery(testContext(t, tc.target)))
		})
	}
}

func TestNewPageLinks(t *testing.T) {
	c := testContext(t, "/api/recipes?limit=2&offset=2&tags=breakfast")

	page := NewPage(c, Params{Limit: 2, Offset: 2}, 7, []int{3, 4})
	assert.EqualValues(t, 7, page.Count)
	require.NotNil(t, page.Next)
	assert.Contains(t, *page.Next, "offset=4")
	assert.Contains(t, *page.Next, "tags=breakfast")
	require.NotNil(t, page.Previous)
	// The first page link drops the offset entirely.
	assert.NotContains(t, *page.Previous, "offset=")
}

func TestNewPageBoundaries(t *testing.T) {
	c := testContext(t, "/api/recipes")

	page := NewPage(c, Params{Limit: DefaultLimit}, 3, []int{1, 2, 3})
	assert.Nil(t, page.Next)
	assert.Nil(t, page.Previous)

	var empty []int
	page = NewPage(c, Params{Limit: DefaultLimit}, 0, empty)
	assert.NotNil(t, page.Results)
	assert.Empty(t, page.Results)
}

func TestRecipesLimit(t *testing.T) {
	assert.Nil(t, RecipesLimit(testContext(t, "/api/users/subscriptions")))

	limit := RecipesLimit(testContext(t, "/api/users/subscriptions?recipes_limit=3"))
	require.NotNil(t, limit)
	assert.Equal(t, 3, *limit)

	// A value that does not parse means unlimited, not an error.
	assert.Nil(t, RecipesLimit(testContext(t, "/api/users/subscriptions?recipes_limit=lots")))

	limit = RecipesLimit(testContext(t, "/api/users/subscriptions?recipes_limit=-1"))
	require.NotNil(t, limit)
	assert.Equal(t, 0, *limit)
}
