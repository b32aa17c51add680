package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/sheaf/cmd/sheaf"
)

func main() {
	os.Exit(actualMain())
}

func actualMain() int {
	ctx := context.Background()

	rootCmd := sheaf.NewRootCmd(ctx)

	if err := sheaf.ExecuteWithFang(ctx, rootCmd); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return 1
	}

	return 0
}
