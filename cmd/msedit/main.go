package main

import (
	"os"

	"github.com/CornHusker89/MagicStorage/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
