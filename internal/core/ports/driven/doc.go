// Package driven defines the interfaces the resolution core depends
// on: outbound fetching, cache tiers, circuit breaking, library
// discovery and history persistence. Adapters implement these;
// services consume them as injected collaborators.
package driven
