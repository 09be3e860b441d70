// Package normalize turns raw source records into (capture ID, game label)
// pairs. Each catalog gets its own Rules; the cleanup a record needs differs
// per source and those differences are deliberate, not unified here.
package normalize

import (
	"strings"

	"github.com/nxshot/capturedb/pkg/captureid"
	"github.com/nxshot/capturedb/pkg/catalog"
)

// Rules captures the per-source quirks of record cleanup.
type Rules struct {
	// Placeholder is a literal cell value treated as absent. The switchbrew
	// wiki renders missing cells as "None".
	Placeholder string

	// DropDemos drops records flagged as demos. Only titledb carries the
	// flag.
	DropDemos bool

	// ExpandWorldwide expands the "WLD" region code to "EUR USA" before
	// formatting. Only nswdb uses the code.
	ExpandWorldwide bool

	// ForcedRegion overrides whatever region the record carries. titledb's
	// US.en dump is all USA.
	ForcedRegion string
}

// Normalizer validates raw records and produces (capture ID, label) pairs.
type Normalizer struct {
	key   captureid.Key
	rules Rules
}

// New creates a normalizer for one source's rules.
func New(key captureid.Key, rules Rules) *Normalizer {
	return &Normalizer{key: key, rules: rules}
}

// Normalize validates a record and computes its capture ID and label.
// It returns ok=false for any record that should be dropped; a drop is not
// an error for the run, it only reduces yield.
func (n *Normalizer) Normalize(rec catalog.SourceRecord) (captureID, label string, ok bool) {
	titleID := strings.TrimSpace(rec.TitleID)
	name := strings.TrimSpace(rec.Name)

	if titleID == "" || name == "" {
		return "", "", false
	}
	if n.rules.Placeholder != "" && (titleID == n.rules.Placeholder || name == n.rules.Placeholder) {
		return "", "", false
	}

	if n.rules.DropDemos && rec.Demo {
		return "", "", false
	}

	if !captureid.ValidTitleID(titleID) {
		return "", "", false
	}

	captureID, err := captureid.Transform(titleID, n.key)
	if err != nil {
		return "", "", false
	}

	return captureID, Label(SanitizeName(name), n.region(rec.Region)), true
}

// region applies the source's region cleanup to a raw region value.
func (n *Normalizer) region(region string) string {
	region = strings.TrimSpace(region)
	if n.rules.Placeholder != "" && region == n.rules.Placeholder {
		region = ""
	}
	if n.rules.ExpandWorldwide && region == "WLD" {
		region = "EUR USA"
	}
	if n.rules.ForcedRegion != "" {
		region = n.rules.ForcedRegion
	}
	return region
}

// nameSanitizer replaces characters that are invalid in folder names.
// Screenshots are organized into folders named after the game label, so the
// label has to be a legal folder name on common filesystems.
var nameSanitizer = strings.NewReplacer(
	":", " -",
	"/", "-",
	"\\", "-",
	"?", "",
	"*", "",
	`"`, "'",
	"<", "",
	">", "",
	"|", "-",
)

// SanitizeName sanitizes a game name for use as a folder name.
func SanitizeName(name string) string {
	return strings.TrimSpace(nameSanitizer.Replace(name))
}

// Label formats the display label: "Name" or "Name (REGION)".
func Label(name, region string) string {
	if region == "" {
		return name
	}
	return name + " (" + region + ")"
}
