// Package roster drives the team roster shown by the client.
//
// A Roster is a fixed, ordered list of members loaded from YAML. The
// Carousel cycles through it on a timer and can jump to a role on demand.
// Member portraits are fetched and decoded by ImageLoaders, one per image
// source, kept in an ImagePool. A failed load is retried a bounded number
// of times before the loader settles in the error state.
package roster
