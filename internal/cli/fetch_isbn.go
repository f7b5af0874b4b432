package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mrlokans/bookshelf/internal/metadata"
)

// Fetcher is satisfied by *metadata.Client.
type Fetcher interface {
	Fetch(ctx context.Context, isbn string) (*metadata.BookRecord, error)
}

// FetchISBNCommand looks up a single ISBN at the external catalog using the
// configured retry policy and prints the record as JSON.
type FetchISBNCommand struct {
	ISBN    string
	Timeout time.Duration

	fetcher Fetcher
	out     io.Writer
}

func NewFetchISBNCommand(fetcher Fetcher) *FetchISBNCommand {
	return &FetchISBNCommand{fetcher: fetcher, out: os.Stdout}
}

func (cmd *FetchISBNCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("fetch-isbn", flag.ContinueOnError)

	fs.StringVar(&cmd.ISBN, "isbn", "", "ISBN to look up (required)")
	fs.DurationVar(&cmd.Timeout, "timeout", 30*time.Second, "Overall deadline including retries")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s fetch-isbn -isbn <isbn> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Fetch book metadata from the external catalog without storing it.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.ISBN == "" {
		return fmt.Errorf("required flag -isbn not provided")
	}
	return nil
}

func (cmd *FetchISBNCommand) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()

	record, err := cmd.fetcher.Fetch(ctx, cmd.ISBN)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", cmd.ISBN, err)
	}

	enc := json.NewEncoder(cmd.out)
	enc.SetIndent("", "  ")
	return enc.Encode(record)
}
