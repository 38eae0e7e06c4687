package envfile

// Compare returns the keys of template missing from target and the keys of
// target absent from template, each in its source's key order.
// A nil slice means there is nothing to report.
func Compare(template, target *Vars) (missing, extra []string) {
	for _, key := range template.keys {
		if !target.Has(key) {
			missing = append(missing, key)
		}
	}
	for _, key := range target.keys {
		if !template.Has(key) {
			extra = append(extra, key)
		}
	}
	return missing, extra
}
