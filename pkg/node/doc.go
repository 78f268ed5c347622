// Package node models the visual units of a conversion.
//
// # Overview
//
// A [Node] wraps one snapshot element or text run, or stands for a
// synthetic group invented while grouping siblings. Every node carries
// three concentric rectangles:
//
//   - Bounds: the border box reported by the snapshot provider
//   - Linear: Bounds grown by the margins, used for flow decisions
//   - Box: Bounds shrunk by borders and paddings, the content area
//
// Derived style predicates ([Node.Floating], [Node.BlockStatic],
// [Node.Pageflow], [Node.Baseline] and friends) are computed lazily and
// memoized. [Node.SetCSS] and [Node.SetBounds] drop the memo explicitly.
//
// # Hierarchy
//
// Nodes keep two parents. The document parent mirrors the DOM and never
// changes. The render parent starts equal to it and moves while the
// grouping engine wraps siblings into containers. All render moves go
// through [Tree.Reparent], which detaches before attaching and refuses to
// create cycles.
//
// Nodes are never deleted. Collapsed or pruned nodes are marked Hidden so
// their geometry stays available to sibling anchoring.
//
// # Flags
//
// Exclusion sets ([Section], [Procedure], [Resource]), [Alignment] and
// [Kind] are bitmask types. Combined constants such as [SectionAll],
// [KindContainer] or [Padding] are precomputed masks.
//
// # Line Breaking
//
// [Node.AlignedVertically] decides whether a node starts a new line after
// its previous sibling. It is the rule every grouping decision rests on.
package node
