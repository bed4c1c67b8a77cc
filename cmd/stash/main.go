package main

import (
	"log"

	"github.com/MrSnakeDoc/stash/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("❌ stash failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ stash stopped with error: %v", err)
	}
}
