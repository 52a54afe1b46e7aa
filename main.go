package main

import (
	"os"

	"github.com/Miraubolant/MiroTrak-sub001/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
