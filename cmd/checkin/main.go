package main

import (
	"os"

	"luogu-auto-checkin/cmd/checkin/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
