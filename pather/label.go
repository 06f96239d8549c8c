package pather

import "github.com/layerworks/slicer/geom"

// PathType classifies what a path prints.
type PathType int

const (
	TypeOutline PathType = iota
	TypeInset
	TypeInfill
	TypeConnection
)

func (t PathType) String() string {
	switch t {
	case TypeOutline:
		return "outline"
	case TypeInset:
		return "inset"
	case TypeInfill:
		return "infill"
	case TypeConnection:
		return "connection"
	}
	return "unknown"
}

// PathOwner tells model material from support material.
type PathOwner int

const (
	OwnerModel PathOwner = iota
	OwnerSupport
)

func (o PathOwner) String() string {
	if o == OwnerSupport {
		return "support"
	}
	return "model"
}

// NoShell marks paths that do not belong to an inset shell.
const NoShell = -1

// PathLabel identifies a path's type, owner and shell.
type PathLabel struct {
	Type  PathType
	Owner PathOwner
	Shell int
}

// JoinableWith reports whether two labels are compatible for joining:
// both types must be inset or connection.
func (l PathLabel) JoinableWith(o PathLabel) bool {
	return joinableType(l.Type) && joinableType(o.Type)
}

func joinableType(t PathType) bool {
	return t == TypeInset || t == TypeConnection
}

// LabeledOpenPath pairs a path with its label.
type LabeledOpenPath struct {
	Label PathLabel
	Path  geom.OpenPath
}
