package main

import (
	"log"

	"github.com/MrSnakeDoc/bgr/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ bgr failed to start: %v", err)
	}
}
