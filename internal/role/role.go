package role

import "github.com/michaelscutari/docstat/internal/entry"

// Role selects the page template used for a directory.
type Role uint8

const (
	Root Role = iota
	DesignatedCollection
	Intermediate
	Leaf
)

func (r Role) String() string {
	switch r {
	case Root:
		return "root"
	case DesignatedCollection:
		return "collection"
	case Intermediate:
		return "intermediate"
	case Leaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// Classify returns the role of node. Exactly one role applies: the walk root
// wins, then the designated collection name, then whether node has
// sub-directories.
func Classify(node *entry.DirNode, isRoot bool, collection string) Role {
	switch {
	case isRoot:
		return Root
	case collection != "" && node.Name == collection:
		return DesignatedCollection
	case node.HasDirs():
		return Intermediate
	default:
		return Leaf
	}
}
