// Package engine reconciles kernel routing tables against the protected
// routes file.
//
// An Engine resolves the monitored interfaces and tables once, loads the
// routes file, adds missing protected routes, and then follows kernel route
// notifications. What it does with each notification depends on its Mode:
//
//   - monitor only logs protected routes that disappear
//   - enforce also puts them back
//   - strict also deletes routes on monitored interfaces and tables that are
//     not protected
//
// The initial sync never deletes routes, in any mode. Edits to the routes
// file are picked up through fsnotify and replace the protected list as a
// whole; a file that cannot be loaded leaves nothing protected.
package engine
