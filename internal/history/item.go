package history

import (
	"encoding/json"
	"time"

	"github.com/grendel/noprints/pkg/security"
)

// Metadata records where and when a clipboard item came from
type Metadata struct {
	SecurityAnalysis *security.Verdict `json:"security_analysis,omitempty"`
	SourceApp        string            `json:"source_app,omitempty"`
	Category         string            `json:"category,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
}

// values returns the searchable string form of every metadata field
func (m Metadata) values() []string {
	out := make([]string, 0, 4)
	if m.SecurityAnalysis != nil {
		if b, err := json.Marshal(m.SecurityAnalysis); err == nil {
			out = append(out, string(b))
		}
	}
	if m.SourceApp != "" {
		out = append(out, m.SourceApp)
	}
	if m.Category != "" {
		out = append(out, m.Category)
	}
	if !m.Timestamp.IsZero() {
		out = append(out, m.Timestamp.Format(time.RFC3339))
	}
	return out
}

// Item is one entry of the clipboard history
type Item struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Timestamp   time.Time  `json:"timestamp"`
	AccessCount int        `json:"access_count"`
	Metadata    Metadata   `json:"metadata"`
	DisplayText string     `json:"display_text"`
	Icon        string     `json:"icon"`
	ExpireAt    *time.Time `json:"expire_at,omitempty"`
	IsSensitive bool       `json:"is_sensitive"`
}

// HasBitcoin reports whether the item's analysis found Bitcoin data
func (it *Item) HasBitcoin() bool {
	return it.Metadata.SecurityAnalysis != nil && it.Metadata.SecurityAnalysis.HasBitcoin()
}

// HasNostr reports whether the item's analysis found Nostr data
func (it *Item) HasNostr() bool {
	return it.Metadata.SecurityAnalysis != nil && it.Metadata.SecurityAnalysis.HasNostr()
}

// Statistics summarizes the store contents
type Statistics struct {
	Total        int `json:"total_items"`
	Sensitive    int `json:"sensitive_items"`
	Bitcoin      int `json:"bitcoin_items"`
	Nostr        int `json:"nostr_items"`
	Pinned       int `json:"pinned_items"`
	ExpiringSoon int `json:"expiring_soon"`
}
