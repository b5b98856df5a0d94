// Package hierograph is a typed graph-rewriting engine: attributed
// multigraphs, sesqui-pushout rewrite rules, and a hierarchy of graphs
// connected by typing homomorphisms that stay consistent as rewrites land.
//
// 🚀 What is hierograph?
//
//	A thread-safe library that brings together:
//
//	  • attrset    — set-valued node/edge attributes with a small algebra
//	  • graphstore — the attributed multigraph store (in-memory, pluggable)
//	  • hom        — graph homomorphisms and the pullback/pushout/pullback-
//	                 complement constructions rewriting is built from
//	  • rule       — L ← P → R rewrite rule spans, edited from an L-keyed
//	                 surface (clone, merge, add/remove nodes and edges)
//	  • rulelang   — a small text transformation-command language
//	  • rewrite    — single-step sesqui-pushout rule application
//	  • hierarchy  — a DAG of graphs under typing homomorphisms, repaired
//	                 automatically as member graphs are rewritten
//
// ✨ Why choose hierograph?
//
//   - Typed      — attributes are set-valued, so "no attribute" and "empty
//     set" are distinguishable, and rules can match on attribute content
//   - Consistent — a hierarchy of graphs never drifts out of sync with its
//     typing edges: every rewrite repairs predecessors and successors
//   - Pure Go    — in-memory store ships by default, no cgo
//
// Under the hood, everything is organized under dedicated subpackages:
//
//	attrset/    — attribute algebra (scalars, sets, maps)
//	graphstore/ — the attributed multigraph Store/Graph types
//	hom/        — homomorphisms and categorical constructions
//	rule/       — rewrite rule spans and their edit surface
//	rulelang/   — the transformation command language's parser
//	rewrite/    — the sesqui-pushout rewrite step
//	hierarchy/  — the typed hierarchy of graphs
//
// The tests in rewrite/ and hierarchy/ exercise each rewrite and
// hierarchy-propagation scenario.
package hierograph
