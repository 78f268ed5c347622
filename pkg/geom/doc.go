// Package geom provides the axis-aligned rectangles and box edges used to
// describe captured element geometry.
//
// Coordinates are device pixels in page space: Left grows rightwards and Top
// grows downwards, so a well-formed [Rect] has Left <= Right and Top <= Bottom.
// The three concentric rectangles tracked for every layout node (bounds,
// linear, box) are all expressed with [Rect] and derived from each other with
// [Rect.Expand] and [Rect.Shrink].
package geom
