package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/furnidesk/FurniOrganizer/internal/account"
	"github.com/furnidesk/FurniOrganizer/internal/auth"
	database "github.com/furnidesk/FurniOrganizer/internal/db"
	"github.com/furnidesk/FurniOrganizer/internal/organizer/application"
	"github.com/furnidesk/FurniOrganizer/internal/organizer/infrastructure"
	"github.com/furnidesk/FurniOrganizer/internal/organizer/interfaces"
)

type Response struct {
	Message string `json:"message"`
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("Started %s %s", r.Method, r.URL.Path)

		next.ServeHTTP(w, r)

		log.Printf("Completed %s in %v", r.URL.Path, time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string, errs ...[]string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}
	if len(errs) > 0 && len(errs[0]) > 0 {
		payload["errors"] = errs[0]
	}
	respondJSON(w, status, payload)
}

type Server struct {
	router          *http.ServeMux
	authHandler     *auth.Handler
	authService     auth.Service
	accountHandler  *account.Handler
	categoryHandler *interfaces.CategoryHandler
}

func NewServer(authHandler *auth.Handler, authService auth.Service, accountHandler *account.Handler, categoryHandler *interfaces.CategoryHandler) *Server {
	return &Server{
		authHandler:     authHandler,
		authService:     authService,
		accountHandler:  accountHandler,
		categoryHandler: categoryHandler,
		router:          http.NewServeMux(),
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func checkConfiguration() error {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, continuing with system environment variables")
	}

	if os.Getenv("JWT_SECRET") == "" {
		return errors.New("no JWT_SECRET Provided")
	}
	return nil
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

func (s *Server) RegisterRoutes() {
	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("POST /api/register", http.HandlerFunc(s.accountHandler.HandleRegister))
	publicRoutes.Handle("POST /api/auth/login", http.HandlerFunc(s.authHandler.HandleLogin))
	publicRoutes.Handle("POST /api/auth/logout", http.HandlerFunc(s.authHandler.HandleLogout))
	publicRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	// Protected routes (session cookie required)
	protectedRoutes := http.NewServeMux()
	guard := s.authService.SessionCookieMiddleware()

	protectedRoutes.Handle("GET /api/protected/profile", guard(http.HandlerFunc(s.accountHandler.HandleGetProfile)))

	// CATEGORY API — the resource the game client's organizer engine talks to.
	// The client issues its load/create against the collection root with a
	// trailing slash, so both spellings are registered.
	protectedRoutes.Handle("GET /api/protected/inventory/categories",
		guard(http.HandlerFunc(s.categoryHandler.HandleGetSnapshot)))
	protectedRoutes.Handle("GET /api/protected/inventory/categories/{$}",
		guard(http.HandlerFunc(s.categoryHandler.HandleGetSnapshot)))

	protectedRoutes.Handle("POST /api/protected/inventory/categories",
		guard(http.HandlerFunc(s.categoryHandler.HandleCreateCategory)))
	protectedRoutes.Handle("POST /api/protected/inventory/categories/{$}",
		guard(http.HandlerFunc(s.categoryHandler.HandleCreateCategory)))

	protectedRoutes.Handle("PUT /api/protected/inventory/categories/reorder",
		guard(http.HandlerFunc(s.categoryHandler.HandleReorderCategories)))

	protectedRoutes.Handle("PATCH /api/protected/inventory/categories/{categoryID}",
		guard(s.categoryHandler.ValidateCategoryPathMiddleware(http.HandlerFunc(s.categoryHandler.HandleUpdateCategory))))

	protectedRoutes.Handle("DELETE /api/protected/inventory/categories/{categoryID}",
		guard(s.categoryHandler.ValidateCategoryPathMiddleware(http.HandlerFunc(s.categoryHandler.HandleDeleteCategory))))

	protectedRoutes.Handle("POST /api/protected/inventory/categories/{categoryID}/assignments",
		guard(s.categoryHandler.ValidateCategoryPathMiddleware(http.HandlerFunc(s.categoryHandler.HandleAssignItem))))

	protectedRoutes.Handle("DELETE /api/protected/inventory/categories/{categoryID}/assignments",
		guard(s.categoryHandler.ValidateCategoryPathMiddleware(http.HandlerFunc(s.categoryHandler.HandleUnassignItem))))

	// Main router
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = mainRouter
}

func main() {
	if err := checkConfiguration(); err != nil {
		log.Fatalf("Missing configuration, update to start server")
	}

	dbService, err := database.NewDBService()
	if err != nil {
		log.Fatalf("Could not initialize database: %v", err)
	}
	defer dbService.Close()

	accountRepo := account.NewAccountRepository(dbService.DB)
	accountService := account.NewAccountService(accountRepo)
	accountHandler := account.NewHandler(accountService)

	sessionManager := auth.NewSessionManager()
	jwtManager := auth.NewJWTManager()
	authService := auth.NewAuthService(accountService, sessionManager, jwtManager)
	authHandler := auth.NewHandler(authService)

	categoryRepo := infrastructure.NewCategoryRepository(dbService.DB)
	categoryService := application.NewCategoryService(categoryRepo)
	categoryHandler := interfaces.NewCategoryHandler(categoryService, respondJSON, respondError)

	server := NewServer(authHandler, authService, accountHandler, categoryHandler)
	server.RegisterRoutes()

	if err := StartSessionSweeper(sessionManager); err != nil {
		log.Fatalf("Session sweeper didn't start, stoping the app ...")
	}
	if err := StartAssignmentSweeper(categoryService); err != nil {
		log.Fatalf("Assignment sweeper didn't start, stoping the app ...")
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	handler := loggingMiddleware(server.router)
	log.Printf("Server starting on %s...", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// StartSessionSweeper drops expired sessions on a schedule.
func StartSessionSweeper(sessionManager auth.SessionManagerInterface) error {
	c := cron.New()
	_, err := c.AddFunc("@every 15m", func() {
		if removed := sessionManager.PurgeExpired(); removed > 0 {
			log.Printf("Purged %d expired sessions", removed)
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	return nil
}

// StartAssignmentSweeper prunes assignment rows whose category is gone. The
// delete path cascades already; this catches anything left behind by partial
// failures.
func StartAssignmentSweeper(categoryService *application.CategoryService) error {
	c := cron.New()
	_, err := c.AddFunc("@daily", func() {
		removed, err := categoryService.PruneOrphanedAssignments()
		if err != nil {
			log.Printf("Error pruning orphaned assignments: %v", err)
		} else if removed > 0 {
			log.Printf("Pruned %d orphaned assignments", removed)
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	return nil
}
