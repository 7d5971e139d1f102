package qa

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// maxCushionIndex is the highest cushion id a well-formed table produces;
// hits above it indicate a corrupted simulation export.
const maxCushionIndex = 18

// loadConcurrency bounds the parallel JSON decodes during shot loading.
const loadConcurrency = 8

// LoadShots reads every shot-summary JSON file under dir (layout
// shots/shot_*/*.json), preserving sorted path order so downstream sim ids
// are stable. With excludeInvalidHits set, records carrying any cue hit
// index above maxCushionIndex are dropped; the second return value counts
// the exclusions.
func LoadShots(dir string, excludeInvalidHits bool) ([]RawShotRecord, int, error) {
	pattern := filepath.Join(dir, "shots", "shot_*", "*.json")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, 0, fmt.Errorf("globbing %s: %w", pattern, err)
	}
	sort.Strings(files)

	records := make([]RawShotRecord, len(files))
	var g errgroup.Group
	g.SetLimit(loadConcurrency)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			if err := json.Unmarshal(data, &records[i]); err != nil {
				return fmt.Errorf("decoding %s: %w", path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	if !excludeInvalidHits {
		return records, 0, nil
	}

	kept := make([]RawShotRecord, 0, len(records))
	excluded := 0
	for _, rec := range records {
		if HasHitIndexAbove(rec, maxCushionIndex) {
			excluded++
			continue
		}
		kept = append(kept, rec)
	}
	if excluded > 0 {
		logrus.Infof("Excluded %d shots with hit index > %d", excluded, maxCushionIndex)
	}
	return kept, excluded, nil
}

// WriteDataset writes one JSON record per line to path.
func WriteDataset(records []MCQ, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	enc := json.NewEncoder(writer)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding record for %s: %w", rec.Video, err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}

// ReadDataset reads a jsonl MCQ dataset. Undecodable lines are skipped with
// a warning rather than failing the whole read.
func ReadDataset(path string) ([]MCQ, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	var records []MCQ
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec MCQ
		if err := json.Unmarshal(line, &rec); err != nil {
			logrus.Warnf("Skipping invalid JSON at %s:%d: %v", path, lineNo, err)
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}
