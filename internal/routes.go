package internal

import (
	"chatsync/internal/controllers"
	"chatsync/internal/providers"
	"chatsync/internal/structures"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/snapshot", http.HandlerFunc(apiController.Snapshot))
	routers.Post("/turn", http.HandlerFunc(apiController.Turn))
	routers.Post("/flush", http.HandlerFunc(apiController.FlushQueue))
	routers.Get("/settings", http.HandlerFunc(apiController.GetSettings))
	routers.Put("/settings", http.HandlerFunc(apiController.UpdateSettings))
	routers.Get("/status", http.HandlerFunc(apiController.Status))
	return routers
}
