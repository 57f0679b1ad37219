package api

import (
	"github.com/go-chi/chi/v5"
)

// setupAPIRoutes sets up API v1 routes
func (s *RESTServer) setupAPIRoutes(r chi.Router) {
	// Health check
	r.Get("/health", s.HandleHealth)
	r.Get("/", s.HandleRoot)

	// Auth routes (public)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.HandleLogin)
		r.Post("/refresh", s.HandleRefresh)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		// Companies
		r.Route("/companies", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/", s.HandleListCompanies)
			r.Post("/", s.HandleCreateCompany)
			r.Get("/me", s.HandleGetCompany)
			r.Put("/me", s.HandleUpdateCompany)
		})

		// Users
		r.Route("/users", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/", s.HandleListUsers)
			r.Post("/", s.HandleCreateUser)
			r.Get("/me", s.HandleGetCurrentUser)
			r.Get("/me/alerts", s.HandleListMyAlerts)
			r.Post("/me/devices", s.HandleRegisterDevice)
			r.Delete("/me/devices", s.HandleUnregisterDevice)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.HandleGetUser)
				r.Put("/", s.HandleUpdateUser)
				r.Delete("/", s.HandleDeleteUser)
			})
		})

		// Vehicles
		r.Route("/vehicles", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/", s.HandleListVehicles)
			r.Post("/", s.HandleCreateVehicle)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.HandleGetVehicle)
				r.Put("/", s.HandleUpdateVehicle)
				r.Delete("/", s.HandleDeleteVehicle)
			})
		})

		// Fleets
		r.Route("/fleets", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/", s.HandleListFleets)
			r.Post("/", s.HandleCreateFleet)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.HandleGetFleet)
				r.Put("/", s.HandleUpdateFleet)
				r.Delete("/", s.HandleDeleteFleet)
			})
		})

		// Notification groups
		r.Route("/groups", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/", s.HandleListGroups)
			r.Post("/", s.HandleCreateGroup)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.HandleGetGroup)
				r.Put("/", s.HandleUpdateGroup)
				r.Delete("/", s.HandleDeleteGroup)
				r.Get("/alerts", s.HandleListGroupAlerts)
				r.Get("/alerts/count", s.HandleGroupAlertCount)
				r.Route("/members", func(r chi.Router) {
					r.Get("/", s.HandleListMemberships)
					r.Post("/", s.HandleAddMembership)
					r.Delete("/{user_id}", s.HandleRemoveMembership)
				})
			})
		})

		// Alerts
		r.Route("/alerts", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/", s.HandleSearchAlerts)
			r.Post("/", s.HandleCreateAlert)
			r.Get("/count-by-day", s.HandleCountAlertsByDay)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.HandleGetAlert)
				r.Patch("/", s.HandleUpdateAlert)
				r.Delete("/", s.HandleDeleteAlert)
				r.Post("/acknowledge", s.HandleAcknowledgeAlert)
				r.Post("/revision", s.HandleCreateRevision)
				r.Get("/revision", s.HandleGetAlertRevision)
			})
		})

		// Revisions
		r.Route("/revisions", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/", s.HandleListRevisions)
			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", s.HandleUpdateRevision)
				r.Delete("/", s.HandleDeleteRevision)
				r.Post("/photos", s.HandleAddPhoto)
			})
		})

		// Photos
		r.Route("/photos", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/{id}", s.HandleGetPhoto)
			r.Delete("/{id}", s.HandleDeletePhoto)
		})

		// Shift rosters
		r.Route("/shifts", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/", s.HandleListShifts)
			r.Post("/import", s.HandleImportShifts)
		})
	})
}
