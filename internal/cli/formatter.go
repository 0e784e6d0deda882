package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/viddup/internal/dupes"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// report is the JSON form of a result.
type report struct {
	// Duplicates is the number of redundant copies.
	Duplicates int `json:"duplicates"`
	// ReclaimableBytes is the space freed by removing the redundant copies.
	ReclaimableBytes int64 `json:"reclaimable_bytes"`
	// Algorithm is the digest algorithm used.
	Algorithm string `json:"algorithm"`
	// Buckets lists the member paths of each bucket.
	Buckets [][]string `json:"buckets"`
	// Details carries digest, size and enumerated paths of each bucket.
	Details []dupes.Bucket `json:"details"`
	// Stats describes the run.
	Stats dupes.Stats `json:"stats"`
}

// PrintJSON outputs the result in JSON format.
func PrintJSON(result *dupes.Result, writer io.Writer) error {
	data, err := json.MarshalIndent(report{
		Duplicates:       result.DuplicateCount(),
		ReclaimableBytes: result.Reclaimable(),
		Algorithm:        result.Algorithm,
		Buckets:          result.Paths(),
		Details:          result.Buckets,
		Stats:            result.Stats,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintTable outputs the result in human-readable form.
//
//nolint:forbidigo // This function prints output to the console.
func PrintTable(result *dupes.Result, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintf(w, "%d duplicate files found\n", result.DuplicateCount())

	if len(result.Buckets) == 0 {
		fmt.Fprintln(w, "\nNo duplicates found.")
	}

	for i, b := range result.Buckets {
		fmt.Fprintf(w, "\n%d) %d files, %s each, %s reclaimable\t\t\n",
			i+1, len(b.Members), humanize.IBytes(uint64(b.Size)), humanize.IBytes(uint64(b.Reclaimable()))) //nolint:gosec // Sizes are never negative

		for _, path := range b.Paths() {
			fmt.Fprintf(w, "- %s\n", path)
		}
	}

	stats := result.Stats

	// Stats summary
	fmt.Fprintln(w, "\nStats:\t\t")
	fmt.Fprintf(w, "Candidates:\t%d\n", stats.Candidates)
	fmt.Fprintf(w, "Skipped:\t%d\n", stats.Skipped)
	fmt.Fprintf(w, "Partial hashes:\t%d\n", stats.PartialHashes)
	fmt.Fprintf(w, "Full hashes:\t%d\n", stats.FullHashes)
	fmt.Fprintf(w, "Reclaimable:\t%s (%d bytes)\n",
		humanize.IBytes(uint64(result.Reclaimable())), result.Reclaimable()) //nolint:gosec // Sizes are never negative
	fmt.Fprintf(w, "Algorithm:\t%s\n", result.Algorithm)

	fmt.Fprintf(w, "\nElapsed:\t%v\n", stats.Elapsed)

	return w.Flush()
}
