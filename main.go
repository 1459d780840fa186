package main

import (
	"context"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/worshipkit/planner/config"
	"github.com/worshipkit/planner/controller"
	"github.com/worshipkit/planner/migrations"
	"github.com/worshipkit/planner/repository"
	"github.com/worshipkit/planner/service"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("error loading config")
	}

	mongoClient, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoDBURI))
	if err != nil {
		log.Fatal().Err(err).Msg("error creating mongo client")
	}
	defer mongoClient.Disconnect(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	retrier := retry.NewRetrier(5, 100*time.Millisecond, time.Second)
	err = retrier.RunContext(ctx, func(ctx context.Context) error {
		return mongoClient.Ping(ctx, readpref.Primary())
	})
	if err != nil {
		log.Fatal().Err(err).Msg("error pinging mongo")
	}

	if err := migrations.EnsureIndexes(ctx, mongoClient, cfg.MongoDBName); err != nil {
		log.Fatal().Err(err).Msg("error creating indexes")
	}

	tx := repository.NewTxRunner(mongoClient)

	eventRepository := repository.NewEventRepository(mongoClient, cfg.MongoDBName)
	setlistRepository := repository.NewSetlistRepository(mongoClient, cfg.MongoDBName)
	suggestionRepository := repository.NewSuggestionRepository(mongoClient, cfg.MongoDBName)
	rotationRepository := repository.NewRotationRepository(mongoClient, cfg.MongoDBName)
	songRepository := repository.NewSongRepository(mongoClient, cfg.MongoDBName)
	userRepository := repository.NewUserRepository(mongoClient, cfg.MongoDBName)
	roleRepository := repository.NewRoleRepository(mongoClient, cfg.MongoDBName)
	bandRepository := repository.NewBandRepository(mongoClient, cfg.MongoDBName)

	eventService := service.NewEventService(eventRepository, setlistRepository, suggestionRepository, tx)
	setlistService := service.NewSetlistService(setlistRepository, tx, cfg.SetlistItemCap, cfg.UnfamiliarSongCap)
	suggestionService := service.NewSuggestionService(suggestionRepository, setlistRepository, tx, cfg.SetlistItemCap, cfg.UnfamiliarSongCap)
	rotationService := service.NewRotationService(rotationRepository, setlistRepository, eventRepository, tx)
	songService := service.NewSongService(songRepository)
	userService := service.NewUserService(userRepository)
	roleService := service.NewRoleService(roleRepository)
	bandService := service.NewBandService(bandRepository)

	webAppController := &controller.WebAppController{
		EventService:      eventService,
		SetlistService:    setlistService,
		SuggestionService: suggestionService,
		RotationService:   rotationService,
		SongService:       songService,
		UserService:       userService,
		RoleService:       roleService,
		BandService:       bandService,
	}

	r := gin.Default()
	webAppController.RegisterRoutes(r)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
