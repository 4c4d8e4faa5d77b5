package scene

import "github.com/decker502/spritetool/internal/compound"

// Instance binds one actor of a shared document into a runtime tree.
// Documents are never owned by an instance.
type Instance struct {
	Doc     *compound.Document
	Path    string
	ActorID uint32
	Visible bool

	Children []*Instance
}

// Actor returns the actor this instance refers to.
func (n *Instance) Actor() (*compound.Actor, bool) {
	return n.Doc.Actor(n.ActorID)
}

// BuildInstanceTree creates one instance per actor of the document at key, in
// document order, descending into resolved sub-documents. A sub-document
// missing from the library leaves its node childless.
func BuildInstanceTree(lib *Library, key string) []*Instance {
	doc, ok := lib.Document(key)
	if !ok {
		return nil
	}

	actors := doc.Actors()
	nodes := make([]*Instance, 0, len(actors))
	for _, actor := range actors {
		node := &Instance{
			Doc:     doc,
			Path:    key,
			ActorID: actor.ID,
			Visible: true,
		}
		if actor.IsCompound() {
			if sub, ok := lib.SubDocumentPath(key, actor.ID); ok {
				node.Children = BuildInstanceTree(lib, sub)
			}
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// CountInstances returns the number of nodes in a forest.
func CountInstances(nodes []*Instance) int {
	n := 0
	for _, node := range nodes {
		n += 1 + CountInstances(node.Children)
	}
	return n
}
