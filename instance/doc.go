// Package instance turns ops into particles and ages them.
//
// An Instancer maps one op.Op onto one Instance through a Canvas grid and a
// Scale of per-axis multipliers. A Pool holds the live instances of one
// lane, ages them every playing tick and evicts those whose life ran out.
package instance
