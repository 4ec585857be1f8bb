package blog

// Relationship declares that records in Collection reference a parent
// entity type through the ForeignKey field.
type Relationship struct {
	// ParentType is the parent entity type (e.g. "user").
	ParentType string

	// ChildType is the child entity type (e.g. "post").
	ChildType string

	// Collection is the store collection holding the child records.
	Collection string

	// ForeignKey is the child field that carries the parent id.
	ForeignKey string
}

// Registry holds all known parent-child relationships. The integrity
// guard consults it to decide which collections can block a delete.
type Registry struct {
	relationships []Relationship
	byParent      map[string][]Relationship
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byParent: make(map[string][]Relationship),
	}
}

// Register adds a relationship to the registry.
func (r *Registry) Register(rel Relationship) {
	r.relationships = append(r.relationships, rel)
	r.byParent[rel.ParentType] = append(r.byParent[rel.ParentType], rel)
}

// ChildrenOf returns all child relationships for a given parent type.
func (r *Registry) ChildrenOf(parentType string) []Relationship {
	return r.byParent[parentType]
}

// HasChildren returns true if the parent type has any registered child
// relationships.
func (r *Registry) HasChildren(parentType string) bool {
	return len(r.byParent[parentType]) > 0
}

// AllRelationships returns all registered relationships.
func (r *Registry) AllRelationships() []Relationship {
	return r.relationships
}

// DefaultRegistry returns the registry for the blog schema: posts and
// comments reference users, comments reference posts. Comments have no
// dependents of their own.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Relationship{
		ParentType: TypeUser,
		ChildType:  TypePost,
		Collection: CollectionPosts,
		ForeignKey: "userId",
	})
	r.Register(Relationship{
		ParentType: TypeUser,
		ChildType:  TypeComment,
		Collection: CollectionComments,
		ForeignKey: "userId",
	})
	r.Register(Relationship{
		ParentType: TypePost,
		ChildType:  TypeComment,
		Collection: CollectionComments,
		ForeignKey: "postId",
	})
	return r
}
