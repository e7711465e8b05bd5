package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/sweetshop-api/internal/application/auth"
	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/internal/application/usecase"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/memory"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/sweetshop-api/internal/interfaces/http"
	"github.com/jhoicas/sweetshop-api/pkg/config"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

// stores agrupa los puertos de persistencia del backend elegido.
type stores struct {
	users     repository.UserRepository
	sweets    repository.SweetRepository
	purchases repository.PurchaseRepository
	restocks  repository.RestockRepository
	tx        inventory.TxRunner
	health    httpRouter.Pinger
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st := openStores(ctx, cfg, log)
	defer st.close()

	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.Auth.BcryptCost)
	sweetUC := usecase.NewSweetUseCase(st.sweets, st.tx)
	purchaseUC := inventory.NewPurchaseUseCase(st.tx, st.purchases)
	restockUC := inventory.NewRestockUseCase(st.tx, st.restocks)

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:        cfg.App.Name,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		SwaggerFile: "./docs/swagger.json",
	}, httpRouter.RouterDeps{
		AuthUC:     authUC,
		SweetUC:    sweetUC,
		PurchaseUC: purchaseUC,
		RestockUC:  restockUC,
		Health:     st.health,
		JWTSecret:  cfg.JWT.Secret,
		AppName:    cfg.App.Name,
	}, log)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) stores {
	if cfg.Store.Driver == config.StoreDriverMemory {
		log.Warn().Msg("STORE_DRIVER=memory: los datos no persisten entre reinicios")
		m := memory.NewStore()
		return stores{
			users:     m.Users(),
			sweets:    m.Sweets(),
			purchases: m.Purchases(),
			restocks:  m.Restocks(),
			tx:        m,
			health:    m,
			close:     func() {},
		}
	}

	if cfg.DB.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DB.ConnectionString(), log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	return stores{
		users:     postgres.NewUserRepository(pool),
		sweets:    postgres.NewSweetRepository(pool),
		purchases: postgres.NewPurchaseRepository(pool),
		restocks:  postgres.NewRestockRepository(pool),
		tx:        postgres.NewTxRunner(pool),
		health:    postgres.NewPinger(pool),
		close:     pool.Close,
	}
}
