// Package route defines the Route value compared by the reconciliation
// engine and the Builder that produces routes from the routes file.
//
// Routes come from two places: Builder.Build for the desired state and
// FromNetlink for what the kernel reports. Both produce the same canonical
// form, so a configured route and the kernel's copy of it are == equal.
package route
