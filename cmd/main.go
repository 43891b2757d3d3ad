package main

import (
	"os"

	"github.com/planetdyn/shtk/cmd/shtk"
)

func main() {
	if err := shtk.Execute(); err != nil {
		os.Exit(1)
	}
}
