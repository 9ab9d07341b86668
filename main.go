package main

import (
	"github.com/joho/godotenv"

	"caltransit/cmd"
)

func main() {
	// Optional .env in the working directory; real config lives in
	// ~/.caltransit/config.json and CALTRANSIT_* environment variables.
	_ = godotenv.Load()

	cmd.Execute()
}
