// Package mapfile is the map/save file collaborator spec.md §4.8 and §6 keep
// external to the core: the core only depends on the tectonic.MapSerializer
// contract, never on a concrete grammar. TextSerializer is the one concrete
// implementation, good enough to round-trip every field the core touches
// (sun/fog/post/color correction/skybox and all ten entity kinds). Full
// shader-material stacking and lightmap baking stay out of scope per spec.md §1.
package mapfile
