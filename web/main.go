package main

import (
	"flag"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/natepfeffer/go-scene-raytracer/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "web",
	})

	webServer := server.NewServer(*port, logger)

	logger.Infof("scene raytracer web server")
	logger.Infof("visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(); err != nil {
		logger.Fatalf("starting server: %v", err)
	}
}
