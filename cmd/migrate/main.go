package main

import (
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/Ezequielnz/backend-sub001/pkg/config"
	"github.com/Ezequielnz/backend-sub001/pkg/logger"
)

// Aplica las migraciones SQL de ./migrations contra la base configurada.
// Uso: migrate [up|down|status] (por defecto up).
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	db, err := goose.OpenDBWithDriver("pgx", cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("abrir conexión para migraciones")
	}
	defer func() { _ = db.Close() }()

	var run error
	switch cmd {
	case "up":
		run = goose.Up(db, "migrations")
	case "down":
		run = goose.Down(db, "migrations")
	case "status":
		run = goose.Status(db, "migrations")
	default:
		log.Fatal().Str("cmd", cmd).Msg("comando desconocido (up|down|status)")
	}
	if run != nil {
		log.Fatal().Err(run).Str("cmd", cmd).Msg("migraciones fallidas")
	}
	log.Info().Str("cmd", cmd).Msg("migraciones aplicadas")
}
