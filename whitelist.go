package autoxliff

// IsAllowed reports whether pkg is on the whitelist.
func IsAllowed(pkg string, whitelist []string) bool {
	for _, w := range whitelist {
		if w == pkg {
			return true
		}
	}
	return false
}

// SelectEligible intersects candidates with the whitelist. The result keeps
// whitelist order and holds each package once, so the first element is the
// package new units are written to.
func SelectEligible(candidates, whitelist []string) []string {
	if len(candidates) == 0 || len(whitelist) == 0 {
		return nil
	}

	want := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		want[c] = true
	}

	var eligible []string
	for _, w := range whitelist {
		if want[w] {
			eligible = append(eligible, w)
			delete(want, w)
		}
	}
	return eligible
}
