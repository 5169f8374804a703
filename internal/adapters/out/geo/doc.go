// Package geo measures distances between coordinates for pricing.
//
// OSRMClient asks an OSRM-compatible routing server for the road distance.
// HaversineProvider computes the great-circle distance offline.
// FallbackProvider combines the two: it bounds the routing call with a
// timeout and answers from the great-circle distance when the call fails,
// flagging the result as an estimate.
package geo
