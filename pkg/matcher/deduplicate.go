package matcher

// findingKey identifies a finding for de-duplication. Two findings are the
// same when their type, mask and fingerprint all agree.
func findingKey(f Finding) string {
	return string(f.Type) + "|" + f.Masked + "|" + f.Fingerprint
}

// Deduplicate returns findings with repeats removed, keeping first-seen order
func Deduplicate(findings []Finding) []Finding {
	if len(findings) < 2 {
		return findings
	}
	seen := make(map[string]struct{}, len(findings))
	out := make([]Finding, 0, len(findings))
	for _, f := range findings {
		key := findingKey(f)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f)
	}
	return out
}
