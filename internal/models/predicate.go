package models

import "time"

// FieldCreatedAt names the creation timestamp every listed resource carries.
const FieldCreatedAt = "created_at"

// Predicate is a boolean filter over a resource and its relations. Stores
// translate predicates into their own query language.
type Predicate interface {
	predicate()
}

// And matches when every child matches. An empty And matches everything.
type And []Predicate

// Or matches when at least one child matches. An empty Or matches nothing.
type Or []Predicate

// Match tests a text field against Pattern, a regular expression fragment
// whose metacharacters have already been escaped.
type Match struct {
	Field         string
	Pattern       string
	Mode          MatchMode
	CaseSensitive bool
}

// In matches when the field equals one of Values.
type In struct {
	Field  string
	Values []string
}

// TimeRange matches when the field lies in [From, To]. Nil bounds are open.
type TimeRange struct {
	Field string
	From  *time.Time
	To    *time.Time
}

func (And) predicate()       {}
func (Or) predicate()        {}
func (Match) predicate()     {}
func (In) predicate()        {}
func (TimeRange) predicate() {}
