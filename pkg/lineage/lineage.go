// Package lineage implements the Lineage Resolver component (spec §4.H):
// walking parent links from a target set to its root, finding a set's
// direct children, and cascading deletion through a subtree.
package lineage

import (
	"github.com/fonsecajr/blk-engine/pkg/manifest"
)

// Chain follows ParentID links from targetID backward until it reaches a
// root set (ParentID == nil) or a missing/broken parent, then returns the
// manifests in root-to-target order. A self-referential or cyclic chain
// terminates the walk without error, per spec §4.H/§3 — the engine
// forbids cycles by construction, but resolve-time defends against one
// anyway.
func Chain(root, targetID string) ([]*manifest.Manifest, error) {
	var reversed []*manifest.Manifest
	visited := make(map[string]bool)

	id := targetID
	for id != "" {
		if visited[id] {
			break
		}
		visited[id] = true

		m, err := manifest.Load(root, id)
		if err != nil {
			break
		}
		reversed = append(reversed, m)

		if m.ParentID == nil {
			break
		}
		id = *m.ParentID
	}

	chain := make([]*manifest.Manifest, len(reversed))
	for i, m := range reversed {
		chain[len(reversed)-1-i] = m
	}
	return chain, nil
}

// Children returns the manifests whose ParentID equals id.
func Children(root, id string) ([]*manifest.Manifest, error) {
	all, err := manifest.LoadAll(root)
	if err != nil {
		return nil, err
	}
	var children []*manifest.Manifest
	for _, m := range all {
		if m.ParentID != nil && *m.ParentID == id {
			children = append(children, m)
		}
	}
	return children, nil
}

// CascadeDelete deletes id and every descendant of id (transitively, via
// breadth-first traversal), removing each set's manifest and archive
// together.
func CascadeDelete(root, id string) ([]string, error) {
	var deleted []string
	queue := []string{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		children, err := Children(root, current)
		if err != nil {
			return deleted, err
		}
		for _, child := range children {
			queue = append(queue, child.ID)
		}

		if err := manifest.Delete(root, current); err != nil {
			return deleted, err
		}
		deleted = append(deleted, current)
	}
	return deleted, nil
}
