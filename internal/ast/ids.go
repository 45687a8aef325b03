package ast

// NodeID identifies a declaration or reference node. IDs are handed out
// 1, 2, 3... in build order and never reused within a script.
type NodeID uint32

// NoNodeID is never assigned to a node.
const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

// IDs is the counter shared by a script and all its nested blocks.
type IDs struct {
	last NodeID
}

// Next returns a fresh identity.
func (g *IDs) Next() NodeID {
	g.last++
	return g.last
}

// Count reports how many identities were handed out.
func (g *IDs) Count() uint32 {
	return uint32(g.last)
}
