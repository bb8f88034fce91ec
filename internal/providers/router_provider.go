package providers

import (
	"net/http"
	"topfived/internal/structures"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	GetRoutes() []structures.Route
	Has(url string) bool
}

type RouterProvider struct {
	routes []structures.Route
	urls   map[string]struct{}
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.add(url, methodHandler(http.MethodGet, handler))
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.add(url, methodHandler(http.MethodPost, handler))
}

func (rp *RouterProvider) add(url string, handler http.Handler) {
	rp.routes = append(rp.routes, structures.Route{
		Url:     url,
		Handler: handler,
	})
	rp.urls[url] = struct{}{}
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	return rp.routes
}

func (rp *RouterProvider) Has(url string) bool {
	_, ok := rp.urls[url]
	return ok
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{urls: make(map[string]struct{})}
}

func methodHandler(method string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
