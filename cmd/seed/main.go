package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"amazona/internal/config"
	"amazona/internal/database"
	"amazona/internal/logger"
	"amazona/internal/seed"
	"amazona/internal/store"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := database.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		log.Fatal("MongoDB connection failed", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.Mongo.DBName)
	if err := database.EnsureIndexes(ctx, db, log); err != nil {
		log.Warn("index bootstrap incomplete", zap.Error(err))
	}

	data, err := seed.Default()
	if err != nil {
		log.Fatal("seed data invalid", zap.Error(err))
	}

	st := store.New(db)
	if err := seed.Run(ctx, st.Users, st.Products, data, log); err != nil {
		log.Fatal("seeding failed", zap.Error(err))
	}

	log.Info("seeded successfully", zap.String("db", db.Name()))
}
