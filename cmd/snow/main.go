package main

import (
	"log"

	"snow/cmd/snow/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		log.Fatal(err)
	}
}
