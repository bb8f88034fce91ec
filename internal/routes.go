package internal

import (
	"net/http"
	"topfived/internal/controllers"
	"topfived/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/lists", http.HandlerFunc(apiController.GetLists))
	routers.Get("/list", http.HandlerFunc(apiController.GetList))
	routers.Get("/debates", http.HandlerFunc(apiController.GetDebates))
	routers.Get("/group", http.HandlerFunc(apiController.GetGroup))
	routers.Post("/vote", http.HandlerFunc(apiController.Vote))
	return routers
}
