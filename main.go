// Package main is the entry point for the vkdemo command-line tool.
package main

import (
	"os"
	"runtime"

	"github.com/vkngwrapper/vkdemo/cmd"
)

func init() {
	// SDL and the Windows console must be driven from the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		cmd.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
