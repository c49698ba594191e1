// Package media defines the item model shared across posterlang: the item
// kinds the pipeline handles, the external catalog ids used as join keys,
// and the stable cache-key format for persisted language facts.
package media
