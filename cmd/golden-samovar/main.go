package main

import (
	"context"
	"log"
	"os"

	"golden-samovar/internal/app"
	"golden-samovar/internal/xpkg/logger"
)

// @title Golden Samovar API
// @version 1.0
// @description Restaurant ordering, bonus points and table booking backend.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	mylog := logger.New("golden-samovar")
	mylog.Action("service_started").Info("starting golden-samovar")

	if err := app.Execute(context.Background(), mylog, os.Args[1:]); err != nil {
		mylog.Action("service_failed").Error("service exited with error", err)
		log.Fatalf("failed to run golden-samovar: %s", err)
	}
	mylog.Action("service_completed").Info("golden-samovar stopped")
}
