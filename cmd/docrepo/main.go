package main

import (
	"context"
	"os"

	"github.com/architeacher/docrepo/internal/runtime"
)

func main() {
	// cobra already reported the error unless --quiet was given.
	if err := runtime.New().Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
