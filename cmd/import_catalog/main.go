package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Aminedrissi12/TP-biblio-fontend/library"
)

// import_catalog bulk-loads a catalogue file into the backend. Each
// non-empty line is "title;author;category;quantity" (quantity optional,
// defaults to 1). Lines starting with # are skipped.
func main() {
	server := flag.String("server", "", "backend base URL (overrides config)")
	configPath := flag.String("config", "", "path to YAML config file")
	file := flag.String("file", "catalog.txt", "catalogue file to import")
	flag.Parse()

	cfg, err := library.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *server != "" {
		cfg.ServerURL = *server
	}

	f, err := os.Open(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening catalogue file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	api := library.NewAPIClient(cfg.ServerURL, cfg.Timeout)
	ctx := context.Background()

	fmt.Printf("Importing catalogue from %s into %s...\n", *file, cfg.ServerURL)

	successCount := 0
	errorCount := 0
	lineNo := 0

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		draft, err := parseLine(line)
		if err != nil {
			fmt.Printf("Line %d: ERROR - %v\n", lineNo, err)
			errorCount++
			continue
		}

		fmt.Printf("Importing: %s by %s... ", draft.Title, draft.Author)
		if err := api.AddBook(ctx, draft); err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}
		fmt.Println("SUCCESS")
		successCount++
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading catalogue file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Successfully imported: %d books\n", successCount)
	fmt.Printf("Errors: %d\n", errorCount)

	// Show the catalogue as the server now sees it.
	if successCount > 0 {
		books, err := api.ListBooks(ctx)
		if err != nil {
			fmt.Printf("Error retrieving books: %v\n", err)
			return
		}
		fmt.Println("\nCatalogue:")
		fmt.Printf("%-5s %-50s %-30s %s\n", "ID", "Title", "Author", "Available")
		fmt.Println(strings.Repeat("-", 100))
		for _, b := range books {
			fmt.Printf("%-5d %-50s %-30s %d / %d\n", b.ID, truncateString(b.Title, 50), truncateString(b.Author, 30), b.Stock, b.TotalQty)
		}
	}
}

func parseLine(line string) (library.BookDraft, error) {
	parts := strings.Split(line, ";")
	if len(parts) < 2 {
		return library.BookDraft{}, fmt.Errorf("want at least title;author, got %q", line)
	}
	draft := library.BookDraft{
		Title:  strings.TrimSpace(parts[0]),
		Author: strings.TrimSpace(parts[1]),
		Total:  1,
	}
	if draft.Title == "" {
		return library.BookDraft{}, fmt.Errorf("empty title in %q", line)
	}
	if len(parts) > 2 {
		draft.Category = strings.TrimSpace(parts[2])
	}
	if len(parts) > 3 && strings.TrimSpace(parts[3]) != "" {
		qty, err := strconv.Atoi(strings.TrimSpace(parts[3]))
		if err != nil || qty < 1 {
			return library.BookDraft{}, fmt.Errorf("bad quantity %q", parts[3])
		}
		draft.Total = qty
	}
	return draft, nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
