package httpapi

import (
	"net/http"
	"time"

	"unistay-backend-go/internal/config"
	"unistay-backend-go/internal/models"
	"unistay-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	DB         *sqlx.DB
	Config     config.Config
	Tokens     services.TokenService
	MetricsHub *services.MetricsHub
}

func NewServer(db *sqlx.DB, cfg config.Config, hub *services.MetricsHub) *Server {
	tokens := services.TokenService{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  time.Duration(cfg.AccessTTLSeconds) * time.Second,
		RefreshTTL: time.Duration(cfg.RefreshTTLSeconds) * time.Second,
	}
	return &Server{
		DB:         db,
		Config:     cfg,
		Tokens:     tokens,
		MetricsHub: hub,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", s.Register)
		api.Post("/auth/login", s.Login)
		api.Post("/auth/refresh", s.Refresh)
		api.Post("/auth/logout", s.Logout)

		api.Get("/search", s.PublicSearch)

		api.Route("/listings", func(listings chi.Router) {
			listings.With(OptionalAuth(s.Tokens)).Get("/", s.ListListings)
			listings.With(OptionalAuth(s.Tokens)).Get("/{listingId}", s.ListingDetail)

			listings.Group(func(owned chi.Router) {
				owned.Use(WithAuth(s.Tokens))
				owned.With(RequireRole(models.RoleAdvertiser)).Post("/", s.CreateListing)
				owned.With(RequireRole(models.RoleAdvertiser)).Put("/{listingId}", s.UpdateListing)
				owned.With(RequireRole(models.RoleAdvertiser)).Delete("/{listingId}", s.DeleteListing)
				owned.With(RequireAnyRole(models.RoleStudent, models.RoleAdvertiser)).Post("/{listingId}/comments", s.CreateComment)
			})
		})

		api.Route("/student/requests", func(requests chi.Router) {
			requests.Use(WithAuth(s.Tokens))
			requests.Use(RequireRole(models.RoleStudent))
			requests.Get("/", s.StudentListRequests)
			requests.Post("/", s.CreateRequest)
			requests.Put("/{requestId}", s.StudentEditRequest)
		})

		api.Route("/advertiser/requests", func(requests chi.Router) {
			requests.Use(WithAuth(s.Tokens))
			requests.Use(RequireRole(models.RoleAdvertiser))
			requests.Get("/", s.AdvertiserListRequests)
			requests.Put("/{requestId}", s.RespondToRequest)
		})

		api.Route("/favorites", func(favorites chi.Router) {
			favorites.Use(WithAuth(s.Tokens))
			favorites.Use(RequireAnyRole(models.RoleStudent, models.RoleAdvertiser))
			favorites.Get("/", s.ListFavorites)
			favorites.Post("/toggle", s.ToggleFavorite)
		})

		api.Route("/messages", func(messages chi.Router) {
			messages.Use(WithAuth(s.Tokens))
			messages.Use(RequireAnyRole(models.RoleStudent, models.RoleAdvertiser))
			messages.Get("/", s.ListMessages)
			messages.Post("/", s.SendMessage)
			messages.Get("/conversations", s.ListConversations)
			messages.Put("/read", s.MarkMessagesRead)
		})

		api.Route("/announcements", func(announcements chi.Router) {
			announcements.Get("/", s.ListAnnouncements)
			announcements.Group(func(authed chi.Router) {
				authed.Use(WithAuth(s.Tokens))
				authed.Use(RequireAnyRole(models.RoleStudent, models.RoleAdvertiser))
				authed.Get("/mine", s.MyAnnouncements)
				authed.Post("/", s.CreateAnnouncement)
				authed.Delete("/{announcementId}", s.DeleteAnnouncement)
			})
			announcements.Get("/{announcementId}", s.AnnouncementDetail)
		})

		api.Route("/me", func(me chi.Router) {
			me.Use(WithAuth(s.Tokens))
			me.Get("/profile", s.Me)
			me.Put("/profile", s.UpdateProfile)
			me.Put("/password", s.ChangePassword)
			me.Delete("/", s.DeleteAccount)
		})

		api.With(WithAuth(s.Tokens)).Post("/upload", s.Upload)

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(WithAuth(s.Tokens))
			admin.Use(RequireRole(models.RoleAdmin))
			admin.Get("/metrics/history", s.MetricsHistory)
			admin.Route("/users", func(users chi.Router) {
				users.Get("/", s.AdminListUsers)
				users.Post("/", s.AdminCreateUser)
				users.Put("/{userId}", s.AdminUpdateUserStatus)
				users.Delete("/{userId}", s.AdminDeleteUser)
			})
			admin.Route("/listings", func(listings chi.Router) {
				listings.Get("/", s.AdminListListings)
				listings.Put("/{listingId}", s.AdminModerateListing)
				listings.Delete("/{listingId}", s.AdminDeleteListing)
			})
			admin.Route("/reports", func(reports chi.Router) {
				reports.Get("/", s.AdminListReports)
				reports.Put("/{reportId}", s.AdminResolveReport)
				reports.Delete("/{reportId}", s.AdminDeleteReport)
			})
			admin.Delete("/announcements/{announcementId}", s.AdminDeleteAnnouncement)
		})
	})

	r.Get("/media/assets/{assetId}/content", s.MediaContent)
	r.Get("/ws/metrics", s.MetricsSocket)
	return r
}
