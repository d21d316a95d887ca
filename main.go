package main

import (
	"log"

	"github.com/netobserv/pcapng-reader/cmd"
)

var (
	BuildVersion string
	BuildDate    string
)

func main() {
	cmd.SetVersion(BuildVersion, BuildDate)

	err := cmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
