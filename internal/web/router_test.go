package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kasen/storefront/internal/cart"
	"github.com/kasen/storefront/internal/checkout"
	"github.com/kasen/storefront/internal/identity"
	"github.com/kasen/storefront/internal/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routerFixture struct {
	server  *httptest.Server
	cart    *cart.Store
	orders  *order.Store
	adapter *identity.Adapter
}

func newRouterFixture(t *testing.T, approve bool) *routerFixture {
	t.Helper()
	log := testLogger()
	repo := &mockCatalog{products: testProducts()}
	cartStore := cart.NewStore(nopPersistence{}, log)
	orders := order.NewStore()
	provider := identity.NewStubProvider(identity.ProviderRecord{}, 0)
	adapter := identity.NewAdapter(provider, "admin@example.com", log)
	svc := checkout.NewService(cartStore, orders, &stubGateway{approve: approve}, &stubNotifier{}, log)

	router := NewRouter(Handlers{
		Products: NewProductHandler(repo, time.Second),
		Cart:     NewCartHandler(cartStore, repo, time.Second),
		Checkout: NewCheckoutHandler(svc, adapter),
		Orders:   NewOrdersHandler(orders, adapter),
		Session:  NewSessionHandler(adapter),
		Adapter:  adapter,
	}, 5*time.Second)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &routerFixture{server: srv, cart: cartStore, orders: orders, adapter: adapter}
}

// noRedirect stops the client from following 302s so the gating behaviour
// stays observable.
func noRedirect() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (f *routerFixture) signIn(email string) {
	f.adapter.HandleSessionEvent(&identity.ProviderRecord{
		UID:         "uid-1",
		DisplayName: "Ada Lovelace",
		Email:       email,
	})
}

func (f *routerFixture) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	resp, err := noRedirect().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRouterHealth(t *testing.T) {
	f := newRouterFixture(t, true)
	resp := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouterViewGating(t *testing.T) {
	f := newRouterFixture(t, true)

	// Signed out: both gated views bounce to the storefront.
	resp := f.do(t, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp = f.do(t, http.MethodGet, "/admin", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	// Signed in as a regular user: dashboard opens, admin bounces there.
	f.signIn("ada@example.com")
	resp = f.do(t, http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/admin", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	// Signed in as the configured admin: both views open.
	f.signIn("admin@example.com")
	resp = f.do(t, http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = f.do(t, http.MethodGet, "/admin", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouterAPIGating(t *testing.T) {
	f := newRouterFixture(t, true)

	resp := f.do(t, http.MethodGet, "/api/v1/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/v1/admin/stats", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	f.signIn("ada@example.com")
	resp = f.do(t, http.MethodGet, "/api/v1/orders", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/v1/admin/stats", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	f.signIn("admin@example.com")
	resp = f.do(t, http.MethodGet, "/api/v1/admin/orders", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouterNotFoundRedirects(t *testing.T) {
	f := newRouterFixture(t, true)

	resp := f.do(t, http.MethodGet, "/no-such-page", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

// TestRouterCheckoutFlow walks the storefront end to end over HTTP: browse,
// fill the cart, pay, then read the order back.
func TestRouterCheckoutFlow(t *testing.T) {
	f := newRouterFixture(t, true)
	f.signIn("ada@example.com")

	resp := f.do(t, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// 2 x Product A + 1 x Product B.
	for i := 0; i < 2; i++ {
		resp = f.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "a"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp = f.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "b"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var cartResp CartResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cartResp))
	assert.Equal(t, "25.00", cartResp.Total)
	assert.Equal(t, 3, cartResp.ItemCount)

	resp = f.do(t, http.MethodPost, "/api/v1/checkout", validCard())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var checkoutResp CheckoutResponseDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&checkoutResp))
	assert.Equal(t, "25.00", checkoutResp.Total)
	assert.Equal(t, "completed", checkoutResp.Status)

	resp = f.do(t, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cartResp = CartResponse{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cartResp))
	assert.Equal(t, 0, cartResp.ItemCount)

	resp = f.do(t, http.MethodGet, "/api/v1/orders", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ordersResp OrdersResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ordersResp))
	require.Len(t, ordersResp.Orders, 1)
	assert.Equal(t, checkoutResp.OrderID, ordersResp.Orders[0].ID)
}

func TestRouterSessionLifecycle(t *testing.T) {
	f := newRouterFixture(t, true)

	// Session still unresolved.
	resp := f.do(t, http.MethodGet, "/api/v1/session", nil)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	f.signIn("ada@example.com")
	resp = f.do(t, http.MethodGet, "/api/v1/session", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var session SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
	assert.True(t, session.SignedIn)
	require.NotNil(t, session.User)
	assert.Equal(t, "ada@example.com", session.User.Email)

	f.adapter.HandleSessionEvent(nil)
	resp = f.do(t, http.MethodGet, "/api/v1/session", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session = SessionResponse{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
	assert.False(t, session.SignedIn)
}
