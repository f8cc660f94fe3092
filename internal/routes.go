package internal

import (
	"net/http"

	"adlens/internal/controllers"
	"adlens/internal/providers"
	"adlens/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/search", http.HandlerFunc(apiController.Search))
	routers.Post("/save", http.HandlerFunc(apiController.Save))
	routers.Get("/saved", http.HandlerFunc(apiController.SavedAds))
	routers.Get("/filters", http.HandlerFunc(apiController.Filters))
	routers.Post("/export/curated.csv", http.HandlerFunc(apiController.ExportCurated))
	routers.Post("/export/raw.json", http.HandlerFunc(apiController.ExportRaw))
	routers.Get("/export/saved/curated.csv", http.HandlerFunc(apiController.ExportSavedCurated))
	routers.Get("/export/saved/raw.json", http.HandlerFunc(apiController.ExportSavedRaw))
	return routers
}
