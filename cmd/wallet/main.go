package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/citizenwallet/tokenwallet/internal/bootstrap"
	"github.com/citizenwallet/tokenwallet/internal/config"
	"github.com/citizenwallet/tokenwallet/pkg/router"
	"github.com/getsentry/sentry-go"
)

func main() {
	log.Default().Println("launching wallet...")

	env := flag.String("env", "", "path to .env file")

	port := flag.Int("port", 3000, "port to listen on")

	sync := flag.Int("sync", 5, "seconds between history refreshes (default: 5)")

	flag.Parse()

	ctx := context.Background()

	conf, err := config.New(ctx, *env)
	if err != nil {
		log.Fatal(err)
	}

	if conf.SentryURL != "" && conf.SentryURL != "x" {
		err = sentry.Init(sentry.ClientOptions{
			Dsn:              conf.SentryURL,
			TracesSampleRate: 1.0,
		})
		if err != nil {
			log.Fatalf("sentry.Init: %s", err)
		}
		// Flush buffered events before the program terminates.
		defer sentry.Flush(2 * time.Second)
	}

	w, err := bootstrap.Open(ctx, conf)
	if err != nil {
		log.Fatal(err)
	}
	defer w.Close()

	log.Default().Println("account: ", w.Account())

	quitAck := make(chan error)

	log.Default().Println("starting history sync...")

	go func() {
		quitAck <- w.Background(ctx, *sync)
	}()

	log.Default().Println("starting api service...")

	api := router.NewServer(w.ChainID, conf.APIKEY, w.Session)

	go func() {
		quitAck <- api.Start(*port)
	}()

	log.Default().Println("listening on port: ", *port)

	for err := range quitAck {
		if err != nil {
			log.Fatal(err)
		}
	}
}
