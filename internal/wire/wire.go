package wire

import (
	"net/http"

	"rental-booking/internal/adaptor"
	"rental-booking/internal/cart"
	"rental-booking/internal/data/repository"
	"rental-booking/internal/metrics"
	"rental-booking/internal/usecase"
	"rental-booking/pkg/middleware"
	"rental-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Realtime is the push side the services emit through and /ws upgrades into.
type Realtime interface {
	usecase.Emitter
	adaptor.SocketServer
}

type Deps struct {
	Repo     *repository.Repository
	Carts    cart.Store
	Notifier usecase.Notifications
	Realtime Realtime
	Config   *utils.Config
	Log      *zap.Logger
}

type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

func Wiring(d Deps) *App {
	service := usecase.NewService(d.Repo, d.Carts, d.Notifier, d.Realtime, d.Config, d.Log)
	handler := adaptor.NewHandler(service, d.Realtime, d.Log)

	return &App{
		Router:  setupRouter(handler, d.Repo, d.Config, d.Log),
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(config.CORS))
	if config.Metrics.Enabled {
		r.Use(middleware.Metrics)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", nil)
	})
	if config.Metrics.Enabled {
		r.Method(http.MethodGet, config.Metrics.Path, metrics.Handler())
	}

	// websocket upgrades must not pass through the rate limiter's 429 path
	r.Get("/ws", handler.Realtime.Connect)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(config.RateLimit, logger))

		wireAuth(r, handler.Auth, repo, logger)
		wireUser(r, handler.User, repo, logger)
		wireCatalog(r, handler.Catalog, repo, logger)
		wireBooking(r, handler.Booking, repo, logger)
		wireCart(r, handler.Cart, repo, logger)
		wireMessage(r, handler.Message, repo, logger)
	})

	return r
}
