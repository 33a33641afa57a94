// Package tags parses the hyphen-delimited naming convention used for avatar
// component files and serializes tag records back into names.
//
// The wire format is <type>-<skeleton>-<theme>-<variant>-<mesh>-<region>[-<map>].<ext>,
// all lowercase except the map tag. Parsing is positional: the Nth token maps
// to the Nth field regardless of content.
package tags

import "strings"

// Field identifies one position in the naming schema.
type Field string

const (
	Type     Field = "type"
	Skeleton Field = "skeleton"
	Theme    Field = "theme"
	Variant  Field = "variant"
	Mesh     Field = "mesh"
	Region   Field = "region"
	Map      Field = "map" // Image files only.
)

// Sep separates tags in a name.
const Sep = "-"

// fieldOrder is the fixed schema order. Map is last and only used for images.
var fieldOrder = []Field{Type, Skeleton, Theme, Variant, Mesh, Region, Map}

// defaults are applied for fields missing from a parsed name.
var defaults = map[Field]string{
	Type:     "undefined",
	Skeleton: "x",
	Theme:    "generic",
	Variant:  "01", // Map set.
	Mesh:     "v1",
	Region:   "undefined",
	Map:      "D", // Diffuse/Albedo map is most likely.
}

// Record maps schema fields to their values. Fields absent from the record
// are omitted when serializing; Parse always fills them with defaults.
type Record map[Field]string

// Parse extracts tags from a file or asset name. The extension (everything
// after the first '.') is stripped and the remainder is lowercased and split
// on the separator. Image names carry a seventh map tag, which is uppercased.
// Tokens beyond the schema are dropped; missing trailing fields get defaults.
// A name with no recognized tokens still parses into an all-default record.
func Parse(name string, isImage bool) Record {
	// e.g. "outfit-f-casual-01-v2-bottom.fbx" versus "fullbody-f-set-01.fbx".
	stem, _, _ := strings.Cut(strings.ToLower(name), ".")
	var parts []string
	if stem != "" {
		parts = strings.Split(stem, Sep)
	}

	nFields := len(fieldOrder)
	if !isImage {
		nFields-- // No map tag for non-image assets.
	}

	rec := make(Record, nFields)
	for i := 0; i < nFields; i++ {
		if i < len(parts) {
			rec[fieldOrder[i]] = parts[i]
		} else {
			rec[fieldOrder[i]] = defaults[fieldOrder[i]]
		}
	}
	if isImage {
		rec[Map] = strings.ToUpper(rec[Map])
	}
	return rec
}

// Name joins the record's fields in schema order. Fields not present in the
// record are omitted, not defaulted, so Name is only the inverse of Parse
// when no defaults were applied.
func (r Record) Name() string {
	vals := make([]string, 0, len(fieldOrder))
	for _, f := range fieldOrder {
		if v, ok := r[f]; ok {
			vals = append(vals, v)
		}
	}
	return strings.Join(vals, Sep)
}

// ReplaceVariant re-parses a name, overwrites its variant tag, and
// re-serializes. Names without extensions work too.
func ReplaceVariant(name, variant string) string {
	rec := Parse(name, false)
	rec[Variant] = variant
	return rec.Name()
}

// SkeletonType extracts the skeleton tag from a name. The tag sits on the
// second position; parsing guarantees a value even for malformed names.
func SkeletonType(name string) string {
	return Parse(name, false)[Skeleton]
}
