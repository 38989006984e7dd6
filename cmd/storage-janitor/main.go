package main

import (
	"os"

	"github.com/telebridge/botstore/janitorservice"
)

func main() {
	if err := janitorservice.Run(); err != nil {
		os.Exit(1)
	}
}
