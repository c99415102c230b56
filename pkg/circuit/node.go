package circuit

// Node is a connection point in the circuit. Nodes are created through
// Circuit.AddNode and identified by a dense integer id; id 0 is ground.
// Voltage is overwritten with the current solution after every Solve and
// must be treated as read-only by callers.
type Node struct {
	ID      int
	Voltage float64
}

// IsGround reports whether the node is the reference node.
func (n *Node) IsGround() bool { return n.ID == 0 }
