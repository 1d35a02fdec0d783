package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/HeikonSilva/spotify-dashboard/internal/auth/session"
	"github.com/HeikonSilva/spotify-dashboard/internal/auth/store"
	"github.com/HeikonSilva/spotify-dashboard/internal/config"
	"github.com/HeikonSilva/spotify-dashboard/internal/db"
	"github.com/HeikonSilva/spotify-dashboard/internal/spotify"
	"github.com/HeikonSilva/spotify-dashboard/internal/version"
	"github.com/HeikonSilva/spotify-dashboard/internal/web/handlers"
	"github.com/HeikonSilva/spotify-dashboard/internal/web/middleware"
)

func main() {
	configPath := flag.String("config", "dashboard.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	database, err := db.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	credStore := store.New(database)
	sess := session.New(cfg, credStore)
	client := spotify.New(cfg.APIBaseURL, sess)

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	// Dashboard shell and auth flow
	r.Get("/", handlers.DashboardHandler())
	r.Get("/login", handlers.LoginHandler(sess))
	r.Get("/callback", handlers.CallbackHandler(sess, credStore))
	r.Post("/logout", handlers.LogoutHandler(credStore))

	r.Route("/api", func(r chi.Router) {
		// Auth status is public so the shell can decide what to render
		r.Get("/auth/status", handlers.StatusHandler(sess))

		// Data API, gated on a stored session
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(sess))
			r.Use(middleware.RequestLogger(database))

			r.Get("/me", handlers.MeHandler(client))
			r.Get("/top/artists", handlers.TopArtistsHandler(client))
			r.Get("/top/tracks", handlers.TopTracksHandler(client))
			r.Get("/recently-played", handlers.RecentlyPlayedHandler(client))
			r.Get("/activity", handlers.ActivityHandler(client))
			r.Get("/playlists", handlers.PlaylistsHandler(client))
			r.Get("/search", handlers.SearchHandler(client))
			r.Get("/artists/{id}", handlers.ArtistHandler(client))
			r.Get("/tracks/{id}", handlers.TrackHandler(client))
			r.Get("/albums/{id}", handlers.AlbumHandler(client))
			r.Get("/requests", handlers.RequestsHandler(database))

			r.Get("/player", handlers.PlayerHandler(client))
			r.Get("/player/devices", handlers.DevicesHandler(client))
			r.Get("/player/queue", handlers.QueueHandler(client))
			for _, action := range []string{"play", "pause", "next", "previous", "seek", "volume"} {
				r.Post("/player/"+action, handlers.PlayerControlHandler(client, action))
			}
		})
	})

	log.Printf("🚀 Spotify dashboard %s starting on http://%s", version.Version, cfg.ListenAddr)
	log.Printf("🔑 Redirect URI: %s", cfg.RedirectURI)

	if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
