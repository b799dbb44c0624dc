// Package types defines the shared data model for the comment curation pipeline.
package types

// Field names recognized on an opinion record. The first and last are required;
// the rest are filled with an empty string when absent.
const (
	FieldVideoID      = "video_id"
	FieldVideoTitle   = "video_title"
	FieldChannelTitle = "channel_title"
	FieldPublishDate  = "publish_date"
	FieldQuote        = "quote"
)

// ColumnOrder returns the fixed master-table schema. Extension fields go at the
// end of this list; the master CSV header follows it exactly.
func ColumnOrder() []string {
	return []string{
		FieldVideoID,
		FieldVideoTitle,
		FieldChannelTitle,
		FieldPublishDate,
		FieldQuote,
	}
}

// Record is one decoded opinion object, exactly as it came out of the JSON
// array. Values are whatever encoding/json produced (strings, json.Number,
// bool, nil, nested values); coercion to cells happens during normalization.
type Record map[string]any

// HasRequired reports whether the record carries both required keys. The values
// may be empty; only key presence matters for admission.
func (r Record) HasRequired() bool {
	_, hasID := r[FieldVideoID]
	_, hasQuote := r[FieldQuote]
	return hasID && hasQuote
}
