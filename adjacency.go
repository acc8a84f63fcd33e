package xmeans

import (
	"errors"
	"fmt"
	"sort"
)

// ErrIndexOutOfRange reports a node index outside [0, Len()) passed to an
// AdjacencyList operation. Returned errors wrap this sentinel.
var ErrIndexOutOfRange = errors.New("node index out of range")

// AdjacencyList maintains directed neighbor relations over a fixed set of
// nodes. Each node stores its neighbors in a set, giving average-case
// constant-time edge add/remove/query and enumeration proportional to degree.
// For sparse graphs it uses far less memory than a dense matrix.
//
// The interface imposes no self-loop restriction. AdjacencyList is not safe
// for concurrent mutation.
type AdjacencyList struct {
	nodes []map[int]struct{}
}

// NewAdjacencyList creates an adjacency list over nodeCount nodes with no
// connections.
func NewAdjacencyList(nodeCount int) (*AdjacencyList, error) {
	if nodeCount < 0 {
		return nil, fmt.Errorf("xmeans: node count must be >= 0, got %d", nodeCount)
	}

	nodes := make([]map[int]struct{}, nodeCount)
	for i := range nodes {
		nodes[i] = make(map[int]struct{})
	}
	return &AdjacencyList{nodes: nodes}, nil
}

// Len returns the number of nodes.
func (a *AdjacencyList) Len() int { return len(a.nodes) }

// Connect adds the directed edge i→j. Adding an existing edge is a no-op.
func (a *AdjacencyList) Connect(i, j int) error {
	if err := a.checkPair(i, j); err != nil {
		return err
	}
	a.nodes[i][j] = struct{}{}
	return nil
}

// Disconnect removes the directed edge i→j. Removing an absent edge is a no-op.
func (a *AdjacencyList) Disconnect(i, j int) error {
	if err := a.checkPair(i, j); err != nil {
		return err
	}
	delete(a.nodes[i], j)
	return nil
}

// Connected reports whether the directed edge i→j exists.
func (a *AdjacencyList) Connected(i, j int) (bool, error) {
	if err := a.checkPair(i, j); err != nil {
		return false, err
	}
	_, ok := a.nodes[i][j]
	return ok, nil
}

// Neighbors returns the indices j for which the edge i→j exists, sorted
// ascending for deterministic enumeration.
func (a *AdjacencyList) Neighbors(i int) ([]int, error) {
	if err := a.checkNode(i); err != nil {
		return nil, err
	}

	out := make([]int, 0, len(a.nodes[i]))
	for j := range a.nodes[i] {
		out = append(out, j)
	}
	sort.Ints(out)
	return out, nil
}

func (a *AdjacencyList) checkNode(i int) error {
	if i < 0 || i >= len(a.nodes) {
		return fmt.Errorf("xmeans: %w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(a.nodes))
	}
	return nil
}

func (a *AdjacencyList) checkPair(i, j int) error {
	if err := a.checkNode(i); err != nil {
		return err
	}
	return a.checkNode(j)
}
