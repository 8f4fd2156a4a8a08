package main

import (
	"context"
	"io"
)

// Dependencies holds the process-level context and writers for command
// execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Run RunCmd `cmd:"" help:"Crawl a site and persist its records"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Site   string `arg:"" help:"Site to crawl: lawtalk, easylaw or caselaw"`
	Detail string `arg:"" optional:"" enum:"simple,detail" default:"simple" help:"Projection level: simple or detail"`
	Dest   string `arg:"" optional:"" enum:"local,s3" default:"local" help:"Destination: local or s3"`
	Scope  string `arg:"" optional:"" enum:"new,all" default:"all" help:"Scope: new (since last crawl) or all"`

	Config string `help:"Path to the configuration file" default:"lawharvest.toml"`
}
