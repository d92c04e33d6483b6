package api

import (
	"bitbucket.org/fmsdatahub/franchise_backend/middlewares"
	"bitbucket.org/fmsdatahub/franchise_backend/stores"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// API carries the shared dependencies of every REST handler: the logger and
// the per-token registry of session-scoped lifecycle stores.
type API struct {
	Logger   *logrus.Logger
	Sessions *stores.Registry
	Places   *PlacesClient
	Tracer   trace.Tracer
}

func NewAPI(logger *logrus.Logger, sessions *stores.Registry, places *PlacesClient) *API {
	return &API{
		Logger:   logger,
		Sessions: sessions,
		Places:   places,
		Tracer:   otel.Tracer("franchise-api"),
	}
}

// RegisterRoutes mounts the versioned REST surface. Everything except auth
// requires a valid session.
func (a *API) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", a.Login)
	auth.POST("/register", middlewares.RequireAdmin(), a.Register)

	authed := v1.Group("")
	authed.Use(requireIdentity())

	authed.GET("/branch-applications", a.ListBranchApplications)
	authed.POST("/branch-applications", a.CreateBranchApplication)
	authed.POST("/branch-applications/:id/decision", a.DecideBranchApplication)

	authed.GET("/branches", a.ListBranches)
	authed.POST("/branches", a.CreateBranch)

	authed.GET("/contracts", a.ListContracts)
	authed.POST("/contracts", a.CreateContract)
	authed.GET("/contracts/:id", a.GetContract)
	authed.POST("/contracts/:id/transition", a.TransitionContract)
	authed.GET("/contracts/:id/activities", a.ListContractActivities)
	authed.POST("/contracts/:id/activities", a.AddContractActivity)

	authed.GET("/rentals", a.ListRentals)
	authed.POST("/rentals", a.CreateRental)
	authed.GET("/rentals/:id", a.GetRental)
	authed.POST("/rentals/:id/transition", a.TransitionRental)
	authed.GET("/rentals/:id/activities", a.ListRentalActivities)
	authed.POST("/rentals/:id/activities", a.AddRentalActivity)

	authed.GET("/royalties", a.ListRoyalties)
	authed.POST("/royalties", a.CreateRoyalty)
	authed.GET("/royalties/export", a.ExportRoyalties)
	authed.POST("/royalties/calculate", a.CalculateRoyaltyPreview)
	authed.GET("/royalties/:id", a.GetRoyalty)
	authed.POST("/royalties/:id/post", a.PostRoyalty)
	authed.POST("/royalties/:id/payments", a.AddRoyaltyPayment)
	authed.POST("/royalties/:id/transition", a.TransitionRoyalty)
	authed.GET("/royalties/:id/activities", a.ListRoyaltyActivities)
	authed.POST("/royalties/:id/activities", a.AddRoyaltyActivity)

	authed.GET("/onboardings", a.ListOnboardings)
	authed.POST("/onboardings", a.CreateOnboarding)
	authed.GET("/onboardings/:id", a.GetOnboarding)
	authed.POST("/onboardings/:id/transition", a.TransitionOnboarding)
	authed.GET("/onboardings/:id/activities", a.ListOnboardingActivities)
	authed.POST("/onboardings/:id/activities", a.AddOnboardingActivity)
	authed.GET("/onboardings/:id/tasks", a.ListOnboardingTasks)
	authed.POST("/onboardings/:id/tasks", a.AddOnboardingTask)
	authed.POST("/onboardings/:id/tasks/:taskId/status", a.ChangeTaskStatus)

	authed.GET("/suppliers", a.ListSuppliers)
	authed.POST("/suppliers", a.CreateSupplier)
	authed.GET("/supplier-contracts", a.ListSupplierContracts)
	authed.POST("/supplier-contracts", a.CreateSupplierContract)

	authed.GET("/training-contents", a.ListTrainingContents)
	authed.POST("/training-contents", a.CreateTrainingContent)

	authed.GET("/map/branches", a.MapBranches)
	authed.GET("/map/places", a.NearbyPlaces)
}
