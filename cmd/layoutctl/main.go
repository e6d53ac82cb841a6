// cmd/layoutctl/main.go
//
// layoutctl – offline companion to layoutd.
//
// Commands
// --------
//
//	layoutctl validate <files...>                 structural checks
//	layoutctl process <file> --var k=v --theme k=v  substitute and print
//	layoutctl kinds                               list widget kinds
//
// Every command builds the same widget registry and engine layoutd uses,
// so a file that passes here registers cleanly in the service.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
