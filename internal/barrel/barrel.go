// Package barrel implements the Barrel Validator (C5) and Barrel Cache
// (C4): parsing a candidate file, checking it only contains supported
// re-export forms, and memoising the result for the lifetime of a
// transform.
package barrel

// ReExport is one validated re-export entry of a barrel file (spec §3
// "Barrel descriptor"). Order within a Descriptor mirrors source order.
type ReExport struct {
	ExportedName    string
	Source          string
	OriginalName    string
	IsDefaultSource bool
	TypeOnly        bool
	Line            int
	Column          int
}

// Descriptor is the validated result of parsing a barrel file.
type Descriptor struct {
	Path      string
	ReExports []ReExport

	byExportedName map[string]int
}

// Build indexes reExports by exported name for O(1) lookup (spec §4.6
// "O(1) via an auxiliary map").
func Build(path string, reExports []ReExport) *Descriptor {
	byName := make(map[string]int, len(reExports))
	for i, re := range reExports {
		if _, exists := byName[re.ExportedName]; !exists {
			byName[re.ExportedName] = i
		}
	}
	return &Descriptor{Path: path, ReExports: reExports, byExportedName: byName}
}

// Lookup finds the re-export entry for an exported name.
func (d *Descriptor) Lookup(exportedName string) (ReExport, bool) {
	idx, ok := d.byExportedName[exportedName]
	if !ok {
		return ReExport{}, false
	}
	return d.ReExports[idx], true
}
