package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yardline/yardline-api/internal/model"
)

func bindMarketItemReq(t *testing.T, body string) marketItemReq {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/market-items", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	var r marketItemReq
	require.NoError(t, c.Bind(&r))
	return r
}

// Every field the request accepts must land on a stored item field; stray
// keys (a seller's city or ZIP belong to the profile, not the item) are
// ignored rather than rejected.
func TestMarketItemReqApplyMapsAllFields(t *testing.T) {
	r := bindMarketItemReq(t, `{
		"name": "  oak dresser ",
		"description": "six drawers",
		"price": 120.50,
		"condition": "good",
		"quantity": 2,
		"category": "furniture",
		"accepts_best_offer": true,
		"allow_messages": false,
		"photos": ["a.jpg", "b.jpg"],
		"featured_image": "a.jpg",
		"is_public": false,
		"status": "active",
		"city": "Springfield",
		"state": "il",
		"zip_code": "62704"
	}`)
	require.Empty(t, r.validate())

	var it model.MarketItem
	r.apply(&it)

	assert.Equal(t, "oak dresser", it.Name)
	assert.Equal(t, "six drawers", it.Description)
	assert.Equal(t, 120.50, it.Price)
	assert.Equal(t, "good", it.Condition)
	assert.Equal(t, 2, it.Quantity)
	assert.Equal(t, "furniture", it.Category)
	assert.False(t, it.IsFree)
	assert.True(t, it.AcceptsBestOffer)
	assert.False(t, it.AllowMessages)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, it.Photos)
	assert.Equal(t, "a.jpg", it.FeaturedImage)
	assert.False(t, it.IsPublic)
	assert.Equal(t, model.ItemActive, it.Status)
}

func TestMarketItemReqApplyDefaults(t *testing.T) {
	r := bindMarketItemReq(t, `{"name": "free couch", "is_free": true, "price": 40}`)
	require.Empty(t, r.validate())

	var it model.MarketItem
	r.apply(&it)

	assert.True(t, it.IsPublic, "listings default to public")
	assert.True(t, it.AllowMessages, "messaging defaults to enabled")
	assert.Equal(t, 1, it.Quantity, "quantity defaults to one")
	assert.Zero(t, it.Price, "free items are stored with a zero price")
}

func TestMarketItemReqValidate(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing name", `{"price": 5}`, "name is required"},
		{"blank name", `{"name": "   "}`, "name is required"},
		{"negative price", `{"name": "x", "price": -1}`, "price must not be negative"},
		{"zero quantity", `{"name": "x", "quantity": 0}`, "quantity must be at least 1"},
		{"unknown status", `{"name": "x", "status": "archived"}`, "invalid status"},
		{"ok", `{"name": "x"}`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := bindMarketItemReq(t, tc.body)
			assert.Equal(t, tc.want, r.validate())
		})
	}
}
