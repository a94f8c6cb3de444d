// Command mcp-reminder provides an MCP server for reminder management.
//
// This server exposes the same create/list/notify-offset/delete
// operations as the chat commands, over stdio, against the bot's
// SQLite database.
//
// Usage:
//
//	./mcp-reminder          # Start MCP server (stdio)
//	./mcp-reminder --help   # Show help
//
// Environment:
//
//	REMINDBOT_STORE_PATH  Path to SQLite database (default: ~/.remind-bot/reminders.db)
//	REMINDBOT_TIMEZONE    IANA zone for parsing/display (default: UTC)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/notexe/remind-bot/internal/reminder"
	"github.com/notexe/remind-bot/internal/timeconv"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--help", "-h":
			printHelp()
			return
		}
	}

	dbPath := os.Getenv("REMINDBOT_STORE_PATH")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to get home directory: %v\n", err)
			os.Exit(1)
		}
		dir := filepath.Join(home, ".remind-bot")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create config directory: %v\n", err)
			os.Exit(1)
		}
		dbPath = filepath.Join(dir, "reminders.db")
	}

	zone := os.Getenv("REMINDBOT_TIMEZONE")
	if zone == "" {
		zone = "UTC"
	}
	conv, err := timeconv.New(zone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load timezone: %v\n", err)
		os.Exit(1)
	}

	store, err := reminder.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	s := reminder.NewServer(reminder.NewService(store, conv))

	if err := server.ServeStdio(s.MCPServer()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Reminder MCP Server")
	fmt.Println()
	fmt.Println("A Model Context Protocol server for managing remind-bot reminders.")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  mcp-reminder [FLAGS]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  --help, -h    Show this help message")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  REMINDBOT_STORE_PATH  Path to SQLite database (default: ~/.remind-bot/reminders.db)")
	fmt.Println("  REMINDBOT_TIMEZONE    IANA zone for parsing/display (default: UTC)")
	fmt.Println()
	fmt.Println("TOOLS:")
	fmt.Println("  create_reminder    Create a reminder, optionally recurring")
	fmt.Println("  list_reminders     List a user's reminders")
	fmt.Println("  add_notify_offset  Add an extra notification before a reminder")
	fmt.Println("  delete_reminder    Delete a reminder")
}
