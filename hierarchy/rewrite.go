package hierarchy

import (
	"github.com/katalvlaran/hierograph/graphstore"
	"github.com/katalvlaran/hierograph/hom"
	"github.com/katalvlaran/hierograph/rewrite"
	"github.com/katalvlaran/hierograph/rule"
)

// Rewrite applies ru to the graph graphID under match (an L -> graphID
// homomorphism), then repairs every predecessor and successor so the
// hierarchy's typing invariants hold again (§4.F rewrite).
//
// The repair order is propagate_up (predecessors) before propagate_down
// (successors): a predecessor's clone/delete repair only depends on the
// host's own before/after node correspondence, while a successor's
// merge/add repair reads res.PM/MG, neither of which propagate_up touches,
// so either order is safe — up-then-down mirrors rules.py's apply_to,
// which always finishes upward propagation before starting downward.
func (h *Hierarchy) Rewrite(graphID string, ru *rule.Rule, match *hom.Hom) (*rewrite.Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle, ok := h.idToHandle[graphID]
	if !ok {
		return nil, &HierarchyError{Kind: UnknownGraphId, GraphID: graphID}
	}

	// When the backend supports it, the rewrite plus every predecessor/
	// successor repair it triggers commits as one transaction, mirroring
	// hierarchy.py's per-step session.begin_transaction()/tx.commit().
	if txStore, ok := h.store.(graphstore.TxStore); ok {
		tx, err := txStore.BeginTx()
		if err != nil {
			return nil, err
		}
		res, err := h.rewriteLocked(handle, graphID, ru, match)
		if err != nil {
			_ = tx.Rollback()
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return res, nil
	}
	return h.rewriteLocked(handle, graphID, ru, match)
}

// rewriteLocked performs the actual rewrite-plus-propagation under h.mu,
// factored out so Rewrite can wrap it in a transaction when the backend
// supports one without duplicating the propagation logic.
func (h *Hierarchy) rewriteLocked(handle GraphHandle, graphID string, ru *rule.Rule, match *hom.Hom) (*rewrite.Result, error) {
	// Propagation rewrites typing homomorphisms, so the cache is purged on
	// every exit, including a failure part-way through.
	defer h.pathCache.Purge()

	host, err := h.store.Snapshot(graphID)
	if err != nil {
		return nil, err
	}

	res, err := rewrite.Apply(ru, host, match)
	if err != nil {
		return nil, err
	}
	if err := h.store.PutGraph(graphID, res.GPrime); err != nil {
		return nil, err
	}

	cloneImages := map[string][]string{}
	for gmNode, hostNode := range res.MG.NodeMap {
		gPrimeNode, ok := res.GmGPrime.Image(gmNode)
		if !ok {
			continue
		}
		cloneImages[hostNode] = append(cloneImages[hostNode], gPrimeNode)
	}

	if err := h.propagateUp(handle, res.GPrime, cloneImages); err != nil {
		return nil, err
	}

	dc := buildDownChange(ru, res)
	if err := h.propagateDown(handle, res.GPrime, dc); err != nil {
		return nil, err
	}

	return res, nil
}
