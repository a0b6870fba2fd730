package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Busline-Digital/marquee/internal/broker"
	"github.com/Busline-Digital/marquee/internal/db"
	"github.com/Busline-Digital/marquee/internal/model"
	"github.com/Busline-Digital/marquee/internal/player"
	"github.com/Busline-Digital/marquee/internal/redis"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()
	env := LoadEnvironment()

	// initialize PostgreSQL
	if err := db.Init(env.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init failed")
	}

	// run pending migrations
	if err := db.RunMigrations(env.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	if env.RedisAddress != "" {
		redis.InitRedis(env.RedisAddress, env.RedisUsername, env.RedisPassword)
	}

	var publisher broker.Publisher = broker.Nop{}
	if env.MQTTBrokerURL != "" {
		p, err := broker.NewPublisher(env.MQTTBrokerURL, "marquee-server")
		if err != nil {
			log.Error().Err(err).Msg("MQTT unavailable, display push disabled")
		} else {
			publisher = p
		}
	}

	store := db.NewStore()
	storageSystem := InitStorage(env)

	// one player per bus with an assigned layout
	pollInterval := time.Duration(env.BusPollIntervalSecs) * time.Second
	factory := func(bus model.Bus) player.LocationClient {
		return player.NewBusLocationClient(env.BusLocationURL, bus.BusID, bus.CompanyID)
	}
	supervisor := player.NewSupervisor(store, factory, publisher, time.Minute,
		player.WithPlayerPollInterval(pollInterval))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if env.BusLocationURL != "" {
		go supervisor.Run(ctx)
	} else {
		log.Info().Msg("BUS_LOCATION_URL not set, location triggers disabled")
	}

	r := gin.Default()
	RegisterRoutes(r, env, store, storageSystem, publisher, supervisor)

	log.Info().Str("address", env.ServerAddress).Msg("listening")
	if err := r.Run(env.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
