package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"chatd/internal/manager"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "chatd %s (%s, %s/%s, llama=%t)\n",
				version, runtime.Version(), runtime.GOOS, runtime.GOARCH, manager.RuntimeAvailable())
		},
	}
}
