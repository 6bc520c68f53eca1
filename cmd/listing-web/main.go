package main

import (
	"listing-web/internal"
	"log"
)

func main() {
	app, err := internal.NewApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("Application stopped with error: %v", err)
	}
}
