package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/cognicore/tidytext/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.SetFlags(0)
	log.SetPrefix("tidytext: ")
	if err := cli.Execute(ctx); err != nil {
		stop()
		log.Fatal(err)
	}
}
