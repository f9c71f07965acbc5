package main

import (
	"context"
	"log"
	"os"

	"github.com/overcastlabs/skycast/internal/app"
)

func main() {
	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer application.Close()

	if err := application.Run(context.Background(), os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}
}
