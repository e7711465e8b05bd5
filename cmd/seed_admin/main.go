// seed_admin crea un usuario Admin o promueve uno existente. La API solo registra usuarios con rol User.
//
// Uso: go run ./cmd/seed_admin -email admin@example.com -password 'secreto123'
// Si el email ya existe se cambia su rol a Admin y la contraseña no se toca.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/sweetshop-api/internal/application/auth"
	"github.com/jhoicas/sweetshop-api/internal/application/usecase"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/postgres"
	"github.com/jhoicas/sweetshop-api/pkg/config"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

func main() {
	email := flag.String("email", "", "email del administrador")
	password := flag.String("password", "", "contraseña (solo si el usuario no existe; mínimo 8 caracteres)")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "Uso: seed_admin -email <email> [-password <password>]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.Store.Driver != config.StoreDriverPostgres {
		fmt.Fprintln(os.Stderr, "seed_admin requiere STORE_DRIVER=postgres")
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.DB.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DB.ConnectionString(), log); err != nil {
			fmt.Fprintf(os.Stderr, "Migraciones: %v\n", err)
			os.Exit(1)
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	users := postgres.NewUserRepository(pool)
	authUC := auth.NewAuthUseCase(users, auth.JWTConfig{Secret: cfg.JWT.Secret}, cfg.Auth.BcryptCost)
	userUC := usecase.NewUserUseCase(users, authUC)

	admin, created, err := userUC.EnsureAdmin(ctx, *email, *password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Alta de administrador: %v\n", err)
		os.Exit(1)
	}
	if created {
		log.Info().Int64("user_id", admin.ID).Str("email", admin.Email).Msg("Admin creado")
		return
	}
	log.Info().Int64("user_id", admin.ID).Str("email", admin.Email).Msg("Usuario promovido a Admin")
}
