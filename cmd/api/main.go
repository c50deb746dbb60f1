package main

import (
	"fmt"
	"os"

	"github.com/metinatakli/seat-reservation/internal/app"
)

func main() {
	err := app.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
