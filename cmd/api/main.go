package main

import (
	"context"
	"net/http"

	"datumtrans-api/internal/config"
	"datumtrans-api/internal/handler"
	"datumtrans-api/internal/repository"
	"datumtrans-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	// Database connection
	conn, err := pgxpool.New(context.Background(), config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	// Initialize layers
	repo := repository.NewRepository(conn)

	transformService := service.NewTransformService(repo)

	transformHandler := handler.NewTransformHandler(transformService)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/transform", transformHandler.Transform)
	r.GET("/summary", transformHandler.Summary)
	r.GET("/parameter-sets", transformHandler.ListParameterSets)

	r.Run(config.ServerAddress)
}
