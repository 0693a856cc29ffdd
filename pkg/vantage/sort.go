package vantage

import "sort"

// sortRecordsByTimestamp orders records ascending by timestamp, as
// GetArchiveData must per SPEC_FULL.md invariant 6.
func sortRecordsByTimestamp(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
}
