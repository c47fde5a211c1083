package devices

import (
	"sort"
	"strings"
)

// SortDevices orders list in place by field (name, id, status, version or
// elapsed), falling back to name for unknown fields. Ties break on id.
func SortDevices(list []Device, field string, reverse bool) {
	cmp := compareFunc(strings.ToLower(field))
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if reverse {
			a, b = b, a
		}
		if c := cmp(a, b); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
}

func compareFunc(field string) func(a, b Device) int {
	switch field {
	case "id":
		return func(a, b Device) int { return strings.Compare(a.ID, b.ID) }
	case "status":
		return func(a, b Device) int { return strings.Compare(a.Status, b.Status) }
	case "version", "version_id":
		return func(a, b Device) int { return strings.Compare(a.VersionID, b.VersionID) }
	case "elapsed", "elapsed_seconds":
		return func(a, b Device) int {
			return compareInt(elapsedOf(a), elapsedOf(b))
		}
	default:
		return func(a, b Device) int { return strings.Compare(a.Name, b.Name) }
	}
}

func elapsedOf(d Device) int64 {
	if d.ElapsedSeconds == nil {
		return -1
	}
	return *d.ElapsedSeconds
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
