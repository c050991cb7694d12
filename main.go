package main

import (
	"os"

	"github.com/jetdock/rentalwatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
