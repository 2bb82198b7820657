package matcher

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ExportCSV renders records as CSV with a "Record ID" column followed by
// fieldNames, one row per record. Quoting follows RFC 4180.
func ExportCSV(records []Record, fieldNames []string) (string, error) {
	if len(records) == 0 {
		return "", nil
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := append([]string{"Record ID"}, fieldNames...)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}

	row := make([]string, 0, len(header))
	for _, rec := range records {
		row = row[:0]
		row = append(row, rec.ID)
		for _, field := range fieldNames {
			row = append(row, formatCellValue(rec.CellValues[field]))
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// formatCellValue flattens platform cell shapes to display strings:
// arrays join on "; " using the best label available, objects prefer
// name then email then raw JSON.
func formatCellValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = formatListItem(item)
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		if name, ok := v["name"].(string); ok {
			return name
		}
		if email, ok := v["email"].(string); ok {
			return email
		}
		raw, _ := json.Marshal(v)
		return string(raw)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func formatListItem(item any) string {
	if m, ok := item.(map[string]any); ok {
		for _, key := range []string{"name", "url", "filename", "id"} {
			if s, ok := m[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return fmt.Sprint(item)
}

var filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// ArchiveFilename builds the download name for an export, e.g.
// "orders_archive_2026-08-30.csv".
func ArchiveFilename(tableName string, now time.Time) string {
	sanitized := strings.ToLower(filenameSanitizer.ReplaceAllString(tableName, "_"))
	return fmt.Sprintf("%s_archive_%s.csv", sanitized, now.Format("2006-01-02"))
}
