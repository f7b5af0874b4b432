// Package audit keeps a copy of accepted bulk requests on disk so a batch
// can be inspected after its task record has been pruned.
package audit

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

type Auditor struct {
	AuditDir string
	now      func() time.Time
}

// BulkSubmission is the persisted form of one accepted bulk-add request.
type BulkSubmission struct {
	TaskID      string    `json:"task_id"`
	CustomerID  uint      `json:"customer_id"`
	ISBNs       []string  `json:"isbns"`
	ClientID    string    `json:"client_id,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func NewAuditor(auditDir string) *Auditor {
	return &Auditor{
		AuditDir: auditDir,
		now:      time.Now,
	}
}

// SaveJSON saves the provided data as JSON to a file with a UUID4 filename.
func (a *Auditor) SaveJSON(data any) (string, error) {
	if err := os.MkdirAll(a.AuditDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create audit directory: %w", err)
	}

	filename := uuid.NewString() + ".json"
	path := filepath.Join(a.AuditDir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data to JSON: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write audit file: %w", err)
	}

	slog.Debug("audit file saved", "path", path)
	return filename, nil
}

// RecordBulkSubmission stamps and saves a bulk-add request. A nil Auditor
// records nothing.
func (a *Auditor) RecordBulkSubmission(sub BulkSubmission) (string, error) {
	if a == nil || a.AuditDir == "" {
		return "", nil
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = a.now().UTC()
	}
	return a.SaveJSON(sub)
}
