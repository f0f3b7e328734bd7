// Package selection tracks the current node of the radial view and derives
// the visual classification of every node and link from it.
//
// # State
//
// A [Coordinator] holds the current and previous node and a two-state
// machine:
//
//	Idle ──Begin──▶ Transitioning ──End──▶ Idle
//
// [Coordinator.Begin] while Transitioning fails with [ErrTransitioning]
// and leaves the selection untouched. Only one selection transition may be
// in flight.
//
// # Classification
//
// [Classify] is a pure function of a tree and a selected node S. Having no
// selection is treated exactly like having the root selected.
//
//	active node     S; the root as well when S is a primary node
//	sibling node    shares S's parent, is not S, is never the root
//	active link     all when S is the root; root→S and S→children when S is
//	                primary; root→parent and parent→S when S is secondary
//	sibling link    leaves S's parent and does not end at S
//	outer visible   primary→secondary links: all when S is the root, those
//	                leaving S when S is primary, those leaving S's parent
//	                when S is secondary
//	faded           secondary nodes outside the explored branch
//	pulsing         S, when S is a secondary node
//
// Root links are always visible.
package selection
