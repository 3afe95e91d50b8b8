/*
DESCRIPTION
  main.go wires and runs the publisher service: an HTTP app exposing
  SEO bundle generation, remote video fetching and publishing to the
  video platform.

AUTHORS
  ClipCast contributors <dev@clipcast.io>

LICENSE
  Copyright (C) 2026 the ClipCast project.

  This is free software: you can redistribute it and/or modify it
  under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.

  This is distributed in the hope that it will be useful, but WITHOUT
  ANY WARRANTY; without even the implied warranty of MERCHANTABILITY
  or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public
  License for more details.

  You should have received a copy of the GNU General Public License in
  gpl.txt. If not, see http://www.gnu.org/licenses/.
*/

// Publisher turns a video file or link into a published platform
// video: it generates an SEO bundle, resolves the source bytes, and
// drives a resumable upload session with scheduling and monetization.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/clipcast/publisher/fetch"
	"github.com/clipcast/publisher/publish"
	"github.com/clipcast/publisher/youtube"
)

const defaultPort = "8080"

func main() {
	standalone := flag.Bool("standalone", false, "Run without platform credentials, discarding uploads.")
	flag.Parse()

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	ctx := context.Background()

	var platform publish.PlatformService
	if *standalone {
		log.Println("running in standalone mode; uploads will be discarded")
		platform = newStandalonePlatform(log.Printf)
	} else {
		client, err := youtube.NewClient(ctx, os.Getenv("YOUTUBE_SECRETS"), os.Getenv("YOUTUBE_TOKEN"))
		if err != nil {
			log.Fatalf("could not create platform client: %v", err)
		}
		platform, err = youtube.NewService(ctx, client, log.Printf)
		if err != nil {
			log.Fatalf("could not create platform service: %v", err)
		}
	}

	svc := &service{
		pub:    publish.NewOrchestrator(platform, log.Printf),
		fetch:  fetch.NewFetcher(http.DefaultClient, log.Printf),
		status: platform,
		log:    log.Printf,
	}

	app := fiber.New(fiber.Config{
		AppName:   "publisher",
		BodyLimit: int(fetch.MaxPayloadBytes) + 1<<20,
	})
	svc.registerRoutes(app)

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("could not serve: %v", err)
		}
	}()
	log.Printf("publisher listening on port %s", port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
