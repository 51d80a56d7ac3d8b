package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/umbralabs/gstring"
	"github.com/umbralabs/gstring/errors"
	"github.com/umbralabs/gstring/lsm"
)

func main() {
	var (
		dir         = flag.String("dir", "./lsm_data", "Store data directory")
		memBytes    = flag.Int("mem", 0, "Memtable flush threshold in bytes (0 = default)")
		verbose     = flag.Bool("v", false, "Verbose store logging")
		interactive = flag.Bool("i", false, "Interactive query mode with TUI")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		lsm.SetLogger(logger)
	}

	if *interactive {
		if err := runInteractive(*dir, *memBytes); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	var err error
	switch args[0] {
	case "demo":
		err = runDemo(*dir, *memBytes)
	case "ingest":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Error: CSV file not specified")
			usage()
			os.Exit(1)
		}
		err = runIngest(*dir, *memBytes, args[1])
	case "get":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Error: key not specified")
			usage()
			os.Exit(1)
		}
		err = runGet(*dir, *memBytes, args[1])
	case "delete":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Error: key not specified")
			usage()
			os.Exit(1)
		}
		err = runDelete(*dir, *memBytes, args[1])
	case "query":
		err = runQuery(*dir, *memBytes)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", args[0])
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: lsmkv [-dir path] [-mem bytes] [-v] <command> [args]")
	fmt.Fprintln(os.Stderr, "       lsmkv [-dir path] -i  (interactive mode)")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  demo              Run the built-in demo")
	fmt.Fprintln(os.Stderr, "  ingest <csv>      Bulk ingest key;value rows from a CSV file")
	fmt.Fprintln(os.Stderr, "  get <key>         Print the value stored for key")
	fmt.Fprintln(os.Stderr, "  delete <key>      Delete a key (tombstone)")
	fmt.Fprintln(os.Stderr, "  query             Interactive line-based query loop")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "CSV rows are key;value with optional surrounding quotes;")
	fmt.Fprintln(os.Stderr, "lines starting with # are comments.")
}

func printStats(tree *lsm.Tree) {
	s := tree.Stats()
	fmt.Printf("Store stats:\n")
	fmt.Printf("  Memtable: %d entries, %d bytes\n", s.MemEntries, s.MemBytes)
	fmt.Printf("  SSTables: %d\n", len(s.Tables))
	for i, ts := range s.Tables {
		fmt.Printf("    table %d: %d entries, level %d (%s)\n", i, ts.Entries, ts.Level, ts.Path)
	}
}

// parseCSVLine splits a key;value row, trimming one pair of surrounding
// quotes from each field. A row without a delimiter is all key.
func parseCSVLine(line string) (key, value string) {
	key, value, _ = strings.Cut(line, ";")
	return trimQuotes(key), trimQuotes(value)
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// ownedPair copies a parsed row into store-owned values. The scanner's
// buffer is reused between rows, so Temporary copies are mandatory here.
func ownedPair(key, value string) (gstring.String, gstring.String, error) {
	k, err := gstring.New([]byte(key), gstring.Temporary)
	if err != nil {
		return gstring.String{}, gstring.String{}, err
	}
	v, err := gstring.New([]byte(value), gstring.Temporary)
	if err != nil {
		k.Free()
		return gstring.String{}, gstring.String{}, err
	}
	return k, v, nil
}

func runIngest(dir string, memBytes int, csvPath string) error {
	fmt.Printf("Ingesting %s into %s\n", csvPath, dir)

	f, err := os.Open(csvPath)
	if err != nil {
		return err
	}
	defer f.Close()

	tree, err := lsm.Open(dir, memBytes)
	if err != nil {
		return err
	}
	defer tree.Close()

	start := time.Now()
	lines, processed := 0, 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)
	for scanner.Scan() {
		lines++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value := parseCSVLine(line)
		if key == "" {
			continue
		}
		k, v, err := ownedPair(key, value)
		if err != nil {
			return err
		}
		if err := tree.Put(k, v); err != nil {
			return err
		}
		processed++
		if processed%10000 == 0 {
			fmt.Printf("Processed %d records...\n", processed)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if err := tree.Flush(); err != nil {
		return err
	}

	elapsed := time.Since(start)
	fmt.Printf("Ingestion complete: %d lines read, %d records in %v\n", lines, processed, elapsed)
	if secs := elapsed.Seconds(); secs > 0 {
		fmt.Printf("Records per second: %.0f\n", float64(processed)/secs)
	}
	printStats(tree)
	return nil
}

func runGet(dir string, memBytes int, key string) error {
	tree, err := lsm.Open(dir, memBytes)
	if err != nil {
		return err
	}
	defer tree.Close()

	k, err := gstring.FromString(key)
	if err != nil {
		return err
	}
	v, ok, err := tree.Get(&k)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NotFound(errors.PhaseQuery, "key", key)
	}
	fmt.Println(v.String())
	return nil
}

func runDelete(dir string, memBytes int, key string) error {
	tree, err := lsm.Open(dir, memBytes)
	if err != nil {
		return err
	}
	defer tree.Close()

	k, err := gstring.New([]byte(key), gstring.Temporary)
	if err != nil {
		return err
	}
	if err := tree.Delete(k); err != nil {
		return err
	}
	if err := tree.Flush(); err != nil {
		return err
	}
	fmt.Printf("Key deleted: %s\n", key)
	return nil
}

func runQuery(dir string, memBytes int) error {
	tree, err := lsm.Open(dir, memBytes)
	if err != nil {
		return err
	}
	defer tree.Close()

	fmt.Println("Type keys to query, 'stats' for statistics, or 'quit' to exit.")
	printStats(tree)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("query> ")
		if !scanner.Scan() {
			break
		}
		input := scanner.Text()
		switch input {
		case "":
			continue
		case "quit", "exit":
			fmt.Println("Goodbye!")
			return nil
		case "stats":
			printStats(tree)
			continue
		}
		k, err := gstring.FromString(input)
		if err != nil {
			return err
		}
		v, ok, err := tree.Get(&k)
		if err != nil {
			return err
		}
		if ok {
			fmt.Printf("Found: %s\n", v.String())
		} else {
			fmt.Println("Not found")
		}
	}
	return scanner.Err()
}

func runDemo(dir string, memBytes int) error {
	fmt.Println("=== LSM Tree Demo ===")

	tree, err := lsm.Open(dir, memBytes)
	if err != nil {
		return err
	}
	defer tree.Close()

	fmt.Println("Inserting data...")
	fruits := [][2]string{
		{"apple", "red fruit"},
		{"banana", "yellow fruit"},
		{"cherry", "red fruit"},
		{"date", "sweet fruit"},
		{"elderberry", "small fruit"},
	}
	for _, kv := range fruits {
		k, v, err := ownedPair(kv[0], kv[1])
		if err != nil {
			return err
		}
		if err := tree.Put(k, v); err != nil {
			return err
		}
	}
	printStats(tree)

	fmt.Println("Adding bulk data to trigger flushes and compaction...")
	for i := 0; i < 500; i++ {
		k, v, err := ownedPair(fmt.Sprintf("key%d", i), fmt.Sprintf("value%d", i))
		if err != nil {
			return err
		}
		if err := tree.Put(k, v); err != nil {
			return err
		}
		if i%100 == 99 {
			if err := tree.Flush(); err != nil {
				return err
			}
		}
	}
	if err := tree.Flush(); err != nil {
		return err
	}
	printStats(tree)

	fmt.Println("Querying after operations:")
	for _, key := range []string{"apple", "key50", "nonexistent"} {
		k, err := gstring.FromString(key)
		if err != nil {
			return err
		}
		v, ok, err := tree.Get(&k)
		if err != nil {
			return err
		}
		if ok {
			fmt.Printf("  %s: %s\n", key, v.String())
		} else {
			fmt.Printf("  %s: not found\n", key)
		}
	}
	return nil
}
