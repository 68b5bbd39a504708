// Package wordstore loads the candidate word list from external sources.
// Sources run once at startup; the game itself never touches them again.
package wordstore

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strings"
)

// LoadCSV reads words from a CSV file where the first column of each
// record is the word. Malformed or blank records are skipped, not fatal.
func LoadCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word file %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse word file %s: %w", path, err)
	}

	words := make([]string, 0, len(records))
	for _, record := range records {
		if len(record) == 0 {
			continue
		}
		word := strings.TrimSpace(record[0])
		if word == "" {
			log.Printf("[LoadCSV] skipping blank record: %v", record)
			continue
		}
		words = append(words, word)
	}

	if len(words) == 0 {
		return nil, fmt.Errorf("word file %s contains no usable words", path)
	}
	return words, nil
}
