// Package actions dispatches named add-on actions to their handlers.
//
// Each action arrives as an Event carrying the invoking account plus
// free-form fields and switches. The Registry maps action names to handlers
// through an explicit table, caches resolved folder and drive catalogs per
// session, and records per-action metrics and spans.
package actions
