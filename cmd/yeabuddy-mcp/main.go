package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/claude/yeabuddy/internal/client"
	"github.com/claude/yeabuddy/internal/mcp"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", os.Getenv("YEABUDDY_SERVER_URL"), "YeaBuddy server URL (e.g. https://yeabuddy.tail1234.ts.net)")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("yeabuddy-mcp", Version)
		return
	}

	// stdout carries the MCP protocol, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: yeabuddy-mcp -server <URL>\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	ds := client.New(*serverURL, *timeout)
	log.Info("yeabuddy-mcp starting", "version", Version, "server", ds.BaseURL())

	if err := mcpserver.ServeStdio(mcp.New(ds, Version, log)); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
