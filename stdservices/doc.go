// Package stdservices is this module's own TermServices and ClauseSource
// implementation, built on the term package. It gives engine.Forest a
// concrete term language to resolve against: predicate calls represented
// as term.Compound values, a relational Database of facts and rules
// (grounded on gokanlogic's pldb.go), and the canonicalization/inversion
// machinery spec.md's engine treats as an external collaborator.
package stdservices
