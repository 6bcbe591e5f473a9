package cmd

import (
	"fmt"
	"runtime"

	"github.com/go-drift/textfield/pkg/textfield"
)

func init() {
	RegisterCommand(&Command{
		Name:  "version",
		Short: "Show version information",
		Long:  `Show the textfieldd build and the default protocol version it speaks.`,
		Usage: "textfieldd version",
		Run: func(args []string) error {
			printVersion()
			return nil
		},
	})
}

func printVersion() {
	fmt.Printf("textfieldd version %s (built %s)\n", Version, BuildTime)
	fmt.Printf("  protocol: %s\n", textfield.DefaultProtocolVersion)
	fmt.Printf("  go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
