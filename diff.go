package autoxliff

import (
	"slices"

	"github.com/ZaguanLabs/autoxliff/catalog"
)

// DiffResult represents the difference between two versions of a catalog.
type DiffResult struct {
	// Added contains units whose id is only in the new version.
	Added []catalog.Unit

	// Removed contains units whose id is only in the old version.
	Removed []catalog.Unit

	// Unchanged contains units present in both with identical text.
	Unchanged []catalog.Unit

	// Modified contains units present in both whose source, target or
	// plural forms differ.
	Modified []ModifiedUnit
}

// ModifiedUnit pairs the two versions of a changed unit.
type ModifiedUnit struct {
	Old catalog.Unit
	New catalog.Unit
}

// Stats returns summary statistics for the diff.
func (d *DiffResult) Stats() DiffStats {
	return DiffStats{
		Added:     len(d.Added),
		Removed:   len(d.Removed),
		Unchanged: len(d.Unchanged),
		Modified:  len(d.Modified),
	}
}

// DiffStats contains summary statistics for a diff.
type DiffStats struct {
	Added     int
	Removed   int
	Unchanged int
	Modified  int
}

// HasChanges returns true if there are any differences.
func (d *DiffResult) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Modified) > 0
}

// NeedsReview returns the units a translator should look at: new units and
// the new version of modified ones.
func (d *DiffResult) NeedsReview() []catalog.Unit {
	result := make([]catalog.Unit, 0, len(d.Added)+len(d.Modified))
	result = append(result, d.Added...)
	for _, m := range d.Modified {
		result = append(result, m.New)
	}
	return result
}

// DiffUnits compares two unit lists by id. Unchanged, removed and modified
// units keep the order of oldUnits; added units keep the order of newUnits.
func DiffUnits(oldUnits, newUnits []catalog.Unit) *DiffResult {
	result := &DiffResult{}

	newByID := make(map[string]catalog.Unit, len(newUnits))
	for _, u := range newUnits {
		newByID[u.ID] = u
	}
	oldIDs := make(map[string]bool, len(oldUnits))

	for _, oldUnit := range oldUnits {
		oldIDs[oldUnit.ID] = true
		newUnit, exists := newByID[oldUnit.ID]
		switch {
		case !exists:
			result.Removed = append(result.Removed, oldUnit)
		case sameText(oldUnit, newUnit):
			result.Unchanged = append(result.Unchanged, oldUnit)
		default:
			result.Modified = append(result.Modified, ModifiedUnit{Old: oldUnit, New: newUnit})
		}
	}

	for _, newUnit := range newUnits {
		if !oldIDs[newUnit.ID] {
			result.Added = append(result.Added, newUnit)
		}
	}

	return result
}

func sameText(a, b catalog.Unit) bool {
	return a.Source == b.Source && a.Target == b.Target && slices.Equal(a.Plurals, b.Plurals)
}
