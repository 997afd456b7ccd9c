package model

// Kind is the typed-id prefix of an item kind.
type Kind string

const (
	KindLabel        Kind = "L"
	KindGroupTask    Kind = "T"
	KindWorkableTask Kind = "W"
	KindCategory     Kind = "C"
)

// TID builds a typed id from an item kind and a plain id.
// Typed ids are unique across the whole tree; plain ids only within
// their sibling scope.
func TID(kind Kind, id string) string {
	return string(kind) + "-" + id
}
