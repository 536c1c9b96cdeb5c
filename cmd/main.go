// cmd/main.go
package main

import (
	"context"
	"fmt"
	"os"

	"game-catalog-backend/internal/cli"
)

func main() {
	if err := cli.NewRoot().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
