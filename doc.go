/*
Package gateway is an HTTP and WebSocket reverse proxy that maps incoming
requests to backend services based on route definitions compiled into
predicate trees and ordered filter chains.

Route definitions are loaded from an eskip document (package eskip),
compiled against registered predicate and filter factories (package
factory) into a routing table (package routing), and matched in ascending
order against each incoming request. A matched route's filter chain
(package chain) runs around a terminal routing filter (package proxy)
that forwards the request over HTTP(S), WebSocket, or in-process.

Routes can carry a distributed token-bucket rate limiter (package
ratelimit) keyed so that every key for one bucket lands on the same Redis
Cluster slot.

See the package documentation of eskip, factory, routing, chain, proxy,
and ratelimit for the detail of each stage.
*/
package gateway
