// Package keyword provides an in-memory TF-IDF keyword index.
//
// Text is folded to half-width lower case and split into ASCII words plus
// Han bigrams, so unsegmented Chinese questions still match policy text
// while a single shared character such as 的 does not. Scores are cosine similarities of TF-IDF weighted vectors.
//
// The index is built once and is read-only afterwards; it is safe for
// concurrent searches.
package keyword
