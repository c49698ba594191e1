// Package artwork ranks image candidates for a title once its original
// language is known. Ranking is pure and deterministic: identical inputs
// always produce identical order.
package artwork
