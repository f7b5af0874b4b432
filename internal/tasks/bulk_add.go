package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// BulkAddFavouritesTask adds a list of ISBNs to one customer's favourites.
// Items are processed in order and one failing item never stops the rest.
type BulkAddFavouritesTask struct {
	CustomerID uint     `json:"customer_id"`
	ISBNs      []string `json:"isbns"`
}

// Config runs each batch exactly once; item failures are logged, not retried.
func (t BulkAddFavouritesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "bulk_add_favourites",
		MaxAttempts: 1,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// FavouriteAdder is satisfied by favourites.Manager.
type FavouriteAdder interface {
	Add(ctx context.Context, customerID uint, isbn string) (*entities.Book, error)
}

// BulkAddResult tallies one batch.
type BulkAddResult struct {
	Added   int
	Failed  int
	Skipped int
}

// ProcessBulkAdd adds every ISBN in order, logging and swallowing
// per-item failures.
func ProcessBulkAdd(ctx context.Context, adder FavouriteAdder, task BulkAddFavouritesTask) BulkAddResult {
	var result BulkAddResult
	for i, isbn := range task.ISBNs {
		if strings.TrimSpace(isbn) == "" {
			result.Skipped++
			continue
		}

		book, err := adder.Add(ctx, task.CustomerID, isbn)
		if err != nil {
			result.Failed++
			slog.Warn("bulk add item failed",
				"customer_id", task.CustomerID, "isbn", isbn, "position", i, "error", err)
			continue
		}

		result.Added++
		slog.Info("bulk add item added",
			"customer_id", task.CustomerID, "isbn", book.ISBN, "position", i)
	}

	slog.Info("bulk add finished",
		"customer_id", task.CustomerID,
		"added", result.Added, "failed", result.Failed, "skipped", result.Skipped)
	return result
}

// BulkAddProcessor creates a processor function for BulkAddFavouritesTask.
func BulkAddProcessor(adder FavouriteAdder) backlite.QueueProcessor[BulkAddFavouritesTask] {
	return func(ctx context.Context, task BulkAddFavouritesTask) error {
		if adder == nil {
			return fmt.Errorf("favourites manager not configured")
		}
		ProcessBulkAdd(ctx, adder, task)
		return nil
	}
}

// NewBulkAddQueue creates a backlite queue for bulk favourite additions.
func NewBulkAddQueue(adder FavouriteAdder) backlite.Queue {
	return backlite.NewQueue(BulkAddProcessor(adder))
}

// SubmitBulkAdd enqueues a batch and returns its task id without waiting
// for any item to be processed.
func (c *Client) SubmitBulkAdd(customerID uint, isbns []string) (string, error) {
	ids, err := c.Add(BulkAddFavouritesTask{CustomerID: customerID, ISBNs: isbns}).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue bulk add: %w", err)
	}
	slog.Info("bulk add enqueued", "customer_id", customerID, "items", len(isbns), "task_id", ids[0])
	return ids[0], nil
}
