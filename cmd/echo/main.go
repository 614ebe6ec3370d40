// Package main is the single-binary entrypoint for Echo.
package main

import "github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
