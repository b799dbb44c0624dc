package types

// RunSummary reports what one pipeline run did, so the CLI and tests can
// assert on behavior without scraping log output.
type RunSummary struct {
	RunID        string `json:"run_id"`
	FilesSeen    int    `json:"files_seen"`
	Consumed     int    `json:"consumed"`
	Quarantined  int    `json:"quarantined"`
	Admitted     int    `json:"admitted"`
	Dropped      int    `json:"dropped"`
	MasterBefore int    `json:"master_before"`
	MasterAfter  int    `json:"master_after"`
	ArchivedRows int    `json:"archived_rows,omitempty"`
	MergeSkipped bool   `json:"merge_skipped"`
}
