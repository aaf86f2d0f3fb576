// Package textutil provides the text comparison primitives used when
// deciding whether two OCR readings belong to the same subtitle.
//
// The primary export is SimilarityRatio, a normalized longest-common-
// subsequence ratio in [0, 1]. It is symmetric and returns 0 when either
// input is empty, which deliberately prevents whitespace-only OCR noise
// from extending a subtitle segment.
package textutil
