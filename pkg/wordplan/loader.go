package wordplan

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var requiredHeaders = []string{"word", "start", "end"}

// Load reads a word timing plan from disk. The format is chosen by file
// extension: .json and .yaml/.yml are parsed as entry lists, anything else
// is treated as CSV/TSV with a header row. When validation issues are found,
// the returned error is of type ValidationErrors and the successfully parsed
// entries are still returned so callers can continue working with the data.
func Load(path string) ([]Word, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("plan file is empty")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return parseJSON(data)
	case ".yaml", ".yml":
		return parseYAML(data)
	default:
		return parseCSV(data)
	}
}

func parseJSON(data []byte) ([]Word, error) {
	var entries []Word
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	return validateEntries(entries)
}

func parseYAML(data []byte) ([]Word, error) {
	var entries []Word
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return validateEntries(entries)
}

func parseCSV(data []byte) ([]Word, error) {
	comma, err := detectDelimiter(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	var (
		entries   []Word
		errs      ValidationErrors
		headerMap map[string]int
		line      = 0
	)

	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("parse file: %w", err)
		}
		line++

		if line == 1 {
			headerMap, err = buildHeaderMap(record)
			if err != nil {
				return nil, err
			}
			continue
		}

		if isEmptyRecord(record) {
			continue
		}

		entry, rowErrs := parseRecord(record, headerMap, line)
		errs = append(errs, rowErrs...)
		entries = append(entries, entry)
	}

	if headerMap == nil {
		return nil, errors.New("missing header row")
	}
	if len(entries) == 0 {
		return nil, errors.New("no data rows found")
	}
	if len(errs) > 0 {
		return entries, errs
	}
	return entries, nil
}

func validateEntries(entries []Word) ([]Word, error) {
	if len(entries) == 0 {
		return nil, errors.New("no entries found")
	}

	var errs ValidationErrors
	for i, entry := range entries {
		errs = append(errs, checkEntry(entry, i+1)...)
	}
	if len(errs) > 0 {
		return entries, errs
	}
	return entries, nil
}

func checkEntry(entry Word, line int) []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(entry.Word) == "" {
		errs = append(errs, ValidationError{Line: line, Field: "word", Message: "word is required"})
	}
	if entry.Start < 0 {
		errs = append(errs, ValidationError{Line: line, Field: "start", Message: "start must be non-negative"})
	}
	if entry.End <= entry.Start {
		errs = append(errs, ValidationError{Line: line, Field: "end", Message: "end must be greater than start"})
	}
	return errs
}

func detectDelimiter(data []byte) (rune, error) {
	// Skip UTF-8 BOM if present.
	dataStr := strings.TrimPrefix(string(data), "\ufeff")

	newline := strings.IndexAny(dataStr, "\r\n")
	headerLine := dataStr
	if newline != -1 {
		headerLine = dataStr[:newline]
	}

	if strings.Count(headerLine, "\t") > 0 {
		return '\t', nil
	}
	if strings.Count(headerLine, ",") > 0 {
		return ',', nil
	}
	return 0, errors.New("unable to detect delimiter (expected comma or tab)")
}

func buildHeaderMap(header []string) (map[string]int, error) {
	if len(header) == 0 {
		return nil, errors.New("header row is empty")
	}

	headerMap := make(map[string]int, len(header))
	for idx, raw := range header {
		name := normalizeHeader(raw)
		if _, exists := headerMap[name]; exists {
			return nil, fmt.Errorf("duplicate header: %s", name)
		}
		headerMap[name] = idx
	}

	for _, required := range requiredHeaders {
		if _, ok := headerMap[required]; !ok {
			return nil, fmt.Errorf("missing required header: %s", required)
		}
	}
	return headerMap, nil
}

func normalizeHeader(value string) string {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "\ufeff")
	return strings.ToLower(value)
}

func isEmptyRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func parseRecord(record []string, header map[string]int, line int) (Word, []ValidationError) {
	var errs []ValidationError

	get := func(field string) string {
		pos, ok := header[field]
		if !ok {
			return ""
		}
		if pos >= len(record) {
			errs = append(errs, ValidationError{Line: line, Field: field, Message: "missing value"})
			return ""
		}
		return strings.TrimPrefix(strings.TrimSpace(record[pos]), "\ufeff")
	}

	word := get("word")
	start, startErrs := parseSeconds("start", get("start"), line)
	end, endErrs := parseSeconds("end", get("end"), line)
	errs = append(errs, startErrs...)
	errs = append(errs, endErrs...)

	entry := Word{Word: word, Start: start, End: end}
	if len(startErrs) == 0 && len(endErrs) == 0 {
		errs = append(errs, checkEntry(entry, line)...)
	} else if strings.TrimSpace(word) == "" {
		errs = append(errs, ValidationError{Line: line, Field: "word", Message: "word is required"})
	}
	return entry, errs
}

func parseSeconds(field, raw string, line int) (float64, []ValidationError) {
	if raw == "" {
		return 0, []ValidationError{{Line: line, Field: field, Message: field + " is required"}}
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, []ValidationError{{Line: line, Field: field, Message: field + " must be a number of seconds"}}
	}
	return value, nil
}
