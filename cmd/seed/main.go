package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/timeguard/attendance-backend/internal/config"
	"github.com/timeguard/attendance-backend/internal/repository"
	"github.com/timeguard/attendance-backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var spreadDays int

	flag.IntVar(&op, "op", 0, "operation (1: insert random employees, 2: insert random overrides, 3: insert random deals)")
	flag.IntVar(&n, "n", 5, "number of records to insert")
	flag.IntVar(&spreadDays, "spread", 14, "spread of generated dates around today, in days")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open does not connect; ping to fail fast on a bad DSN.
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	if n <= 0 {
		slog.Error("please provide a positive record count")
		return
	}

	switch op {
	case 0:
		slog.Error("no operation specified")
	case 1:
		cnt := n
		for i := 0; i < n; i++ {
			emp, err := utils.GenerateRandomEmployee(cfg.Seed.Employee.Password, cfg.Email.EmployeeDomain)
			if err != nil {
				slog.Error("failed to generate employee", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateEmployee(context.Background(), emp); err != nil {
				slog.Error("failed to insert employee", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("employees inserted", slog.Int("count", n-cnt))
	case 2:
		employees, err := repo.GetAllEmployees(context.Background())
		if err != nil {
			slog.Error("failed to list employees", slog.String("error", err.Error()))
			return
		}
		if len(employees) == 0 {
			slog.Error("no employees to attach overrides to, run op 1 first")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			emp := employees[rand.Intn(len(employees))]
			ov := utils.GenerateRandomOverride(emp.ID, spreadDays)
			if err := repo.UpsertOverride(context.Background(), ov); err != nil {
				slog.Error("failed to insert override", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("overrides inserted", slog.Int("count", n-cnt))
	case 3:
		employees, err := repo.GetAllEmployees(context.Background())
		if err != nil {
			slog.Error("failed to list employees", slog.String("error", err.Error()))
			return
		}
		if len(employees) == 0 {
			slog.Error("no employees to attach deals to, run op 1 first")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			emp := employees[rand.Intn(len(employees))]
			deal := utils.GenerateRandomDeal(emp.ID, spreadDays)
			if err := repo.CreateDeal(context.Background(), &deal); err != nil {
				slog.Error("failed to insert deal", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("deals inserted", slog.Int("count", n-cnt))
	default:
		slog.Error("unknown operation", slog.Int("op", op))
	}
}
