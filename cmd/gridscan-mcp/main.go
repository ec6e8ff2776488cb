package main

import (
	"fmt"
	"log"
	"os"

	"github.com/draftscale/gridscan/internal/detection"
	"github.com/draftscale/gridscan/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("gridscan-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("gridscan-mcp - MCP server for grid and content detection in scanned sheets")
			fmt.Println()
			fmt.Println("Usage: gridscan-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  GRIDSCAN_LOG_LEVEL=debug    Enable debug logging")
			fmt.Println("  GRIDSCAN_DEGRADED=1         Run detection in degraded fallback mode")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	logLevel := os.Getenv("GRIDSCAN_LOG_LEVEL")
	if logLevel == "debug" {
		log.Printf("Gridscan MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	var srv *server.Server
	if os.Getenv("GRIDSCAN_DEGRADED") == "1" {
		params := detection.DefaultParams()
		params.Degraded = true
		srv = server.NewWithParams(params)
		log.Printf("Running in degraded mode: detection returns fallback results")
	} else {
		srv = server.New()
	}

	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
