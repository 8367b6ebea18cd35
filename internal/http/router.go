package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"

	"noteswift/internal/admin"
	"noteswift/internal/auth"
	"noteswift/internal/config"
	"noteswift/internal/http/handler"
	mw "noteswift/internal/http/middleware"
	"noteswift/internal/note"
)

func NewRouter(cfg config.Config, db *gorm.DB, jwtSvc *auth.JWT, noteSvc *note.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	identity := &auth.Service{DB: db, JWT: jwtSvc}
	adminSvc := &admin.Service{DB: db, Identity: identity}

	ah := &handler.AuthHandler{Identity: identity}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	me := &handler.MeHandler{Identity: identity, Admin: adminSvc}
	r.Route("/me", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Get("/", me.Me)
		r.Put("/username", me.UpdateUsername)
		r.Put("/password", me.ChangePassword)
	})

	nh := &handler.NoteHandler{Svc: noteSvc}
	r.Route("/notes", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Post("/", nh.Create)
		r.Get("/", nh.List)

		r.Get("/{id}", nh.Get)
		r.Put("/{id}", nh.Update)
		r.Delete("/{id}", nh.Delete)

		r.Post("/{id}/restore", nh.Restore)
		r.Delete("/{id}/purge", nh.Purge)

		r.Put("/{id}/reminder", nh.SetReminder)
		r.Delete("/{id}/reminder", nh.ClearReminder)
	})

	adh := &handler.AdminHandler{Svc: adminSvc}
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Get("/stats", adh.Stats)

		r.Post("/users", adh.CreateUser)
		r.Delete("/users/{id}", adh.DeleteUser)
		r.Get("/users/{id}/notes", adh.ListUserNotes)
		r.Put("/users/{id}/role", adh.SetRole)
		r.Put("/users/{id}/password", adh.SetPassword)
		r.Put("/users/{id}/username", adh.SetUsername)
	})

	return r
}
