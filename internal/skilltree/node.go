package skilltree

import "slices"

// NodeType classifies what a node represents on a career path.
type NodeType string

const (
	TypeSkill         NodeType = "skill"
	TypeCourse        NodeType = "course"
	TypeDegree        NodeType = "degree"
	TypeJob           NodeType = "job"
	TypeCertification NodeType = "certification"
	TypeMilestone     NodeType = "milestone"
)

// Valid reports whether t is a known node type.
func (t NodeType) Valid() bool {
	switch t {
	case TypeSkill, TypeCourse, TypeDegree, TypeJob, TypeCertification, TypeMilestone:
		return true
	}
	return false
}

// Category groups nodes for filtering. It never affects eligibility.
type Category string

const (
	CategoryFoundation        Category = "foundation"
	CategoryScience           Category = "science"
	CategoryCommerce          Category = "commerce"
	CategoryArts              Category = "arts"
	CategoryInterdisciplinary Category = "interdisciplinary"
)

// AllCategories returns all categories in display order.
func AllCategories() []Category {
	return []Category{
		CategoryFoundation,
		CategoryScience,
		CategoryCommerce,
		CategoryArts,
		CategoryInterdisciplinary,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return slices.Contains(AllCategories(), c)
}

// DisplayName returns a human-readable name for a category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryFoundation:
		return "Foundation"
	case CategoryScience:
		return "Science"
	case CategoryCommerce:
		return "Commerce"
	case CategoryArts:
		return "Arts & Humanities"
	case CategoryInterdisciplinary:
		return "Interdisciplinary"
	default:
		return string(c)
	}
}

// ConnectionType describes a visual link between two nodes.
type ConnectionType string

const (
	ConnectionPrerequisite ConnectionType = "prerequisite"
	ConnectionSuggested    ConnectionType = "suggested"
	ConnectionAlternative  ConnectionType = "alternative"
	ConnectionParallel     ConnectionType = "parallel"
)

// Valid reports whether t is a known connection type.
func (t ConnectionType) Valid() bool {
	switch t {
	case ConnectionPrerequisite, ConnectionSuggested, ConnectionAlternative, ConnectionParallel:
		return true
	}
	return false
}

// Connection is an edge used for visualization only. Targets may point
// outside the catalog.
type Connection struct {
	TargetID string         `json:"targetNodeId" yaml:"targetNodeId"`
	Type     ConnectionType `json:"connectionType" yaml:"connectionType"`
	Weight   float64        `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// Resource is a learning resource attached to a requirement.
type Resource struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
	Type  string `json:"type" yaml:"type"` // course, book, video, article, practice
}

// Requirement is an informational checklist item of a node.
type Requirement struct {
	ID            string     `json:"id" yaml:"id"`
	Description   string     `json:"description" yaml:"description"`
	Difficulty    int        `json:"difficulty" yaml:"difficulty"`
	EstimatedTime string     `json:"estimatedTime" yaml:"estimatedTime"`
	Resources     []Resource `json:"resources,omitempty" yaml:"resources,omitempty"`
}

// Position is a layout hint for presentation.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Source records how a node entered the catalog.
type Source string

const (
	SourceSeed Source = "seed"
	SourceFile Source = "file"
	SourceAI   Source = "ai"
)

// Node is an immutable catalog entry.
type Node struct {
	ID             string        `json:"id" yaml:"id"`
	Title          string        `json:"title" yaml:"title"`
	Description    string        `json:"description" yaml:"description"`
	Type           NodeType      `json:"type" yaml:"type"`
	Category       Category      `json:"category" yaml:"category"`
	Prerequisites  []string      `json:"prerequisites" yaml:"prerequisites"`
	Difficulty     int           `json:"difficulty" yaml:"difficulty"`
	EstimatedTime  string        `json:"estimatedTime,omitempty" yaml:"estimatedTime,omitempty"`
	EstimatedHours int           `json:"estimatedHours,omitempty" yaml:"estimatedHours,omitempty"`
	Connections    []Connection  `json:"connections,omitempty" yaml:"connections,omitempty"`
	Requirements   []Requirement `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	XPReward       int           `json:"xpReward" yaml:"xpReward"`
	Position       *Position     `json:"position,omitempty" yaml:"position,omitempty"`
	Source         Source        `json:"source,omitempty" yaml:"source,omitempty"`
}

// IsRoot reports whether the node has no prerequisites.
func (n Node) IsRoot() bool {
	return len(n.Prerequisites) == 0
}

// Clone returns a deep copy of n.
func (n Node) Clone() Node {
	c := n
	c.Prerequisites = slices.Clone(n.Prerequisites)
	c.Connections = slices.Clone(n.Connections)
	if n.Requirements != nil {
		c.Requirements = make([]Requirement, len(n.Requirements))
		for i, r := range n.Requirements {
			r.Resources = slices.Clone(r.Resources)
			c.Requirements[i] = r
		}
	}
	if n.Position != nil {
		p := *n.Position
		c.Position = &p
	}
	return c
}
