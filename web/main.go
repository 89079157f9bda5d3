package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/df07/go-pathtracer/web/server"
)

func main() {
	port := pflag.IntP("port", "p", 8080, "Port to serve on")
	scenesDir := pflag.String("scenes", "scenes", "Directory of scene documents")
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	webServer := server.NewServer(*port, *scenesDir, logger)

	logger.Printf("Path Tracer Preview Server")
	logger.Printf("Visit http://localhost:%d/api/scenes to list scenes", *port)

	if err := webServer.Start(ctx); err != nil {
		logger.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
