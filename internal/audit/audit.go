package audit

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Auditor writes ingestion reports to disk, one JSON file per report.
type Auditor struct {
	AuditDir string
}

func NewAuditor(auditDir string) *Auditor {
	return &Auditor{
		AuditDir: auditDir,
	}
}

// SaveJSON writes data to a new file named by a random UUID and returns the file name.
func (a *Auditor) SaveJSON(data any) (string, error) {
	if err := os.MkdirAll(a.AuditDir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create audit directory")
	}

	filename := fmt.Sprintf("%s.json", uuid.NewString())
	path := filepath.Join(a.AuditDir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal audit report")
	}

	if err := os.WriteFile(path, jsonData, 0o644); err != nil {
		return "", errors.Wrap(err, "failed to write audit report")
	}

	log.Printf("Saved audit report: %s", path)
	return filename, nil
}
