// Package correlator joins temporally-disjoint metadata calls that share
// external catalog ids. A details fetch learns a title's original
// language but cannot pass it to the later images fetch directly; the
// correlator holds that fact in memory, indexed by every external id the
// title carries, until the images path consumes it exactly once.
package correlator
