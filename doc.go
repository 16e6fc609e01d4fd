// Package localsearch is a local-search engine for vehicle routing
// problems: capacitated, time-windowed, multi-depot, heterogeneous-fleet
// routing with optional prize-collecting clients and mutually exclusive
// client groups.
//
// A LocalSearch instance owns a fixed ProblemData and, given a Solution,
// repeatedly applies node and route operators until no operator reports an
// improving move. Operators exchange, relocate, reverse and swap client
// segments between routes using an O(1) concatenation-segment algebra for
// cost evaluation, restricting candidate moves to each client's granular
// neighbourhood so a full local-search pass stays near-linear in the
// number of clients.
//
// Everything is organized under per-concern subpackages:
//
//	vrptypes/      — ProblemData, Location, VehicleType, ClientGroup, Solution
//	costeval/      — penalised-cost evaluation
//	segment/       — duration/load/distance segment merge algebra
//	route/         — Route, Node, prefix/suffix caching, trips and reloads
//	nodeops/       — Exchange, TwoOpt, MoveTwoClientsReversed, SwapTails,
//	                 RelocateWithDepot, TripRelocate, RemoveAdjacentDepot,
//	                 Insert/OptionalInsert/RemoveOptional/Replace*/SwapInPlace
//	routeops/      — SwapStar, SwapRoutes, RelocateStar
//	neighbourhood/ — granular neighbourhood construction
//	search/        — the LocalSearch driver: search, intensify, call
//	vrprand/       — seeded shuffler used for deterministic iteration order
//	vrperr/        — shared sentinel error taxonomy
//
//	go get github.com/vrpcore/localsearch
package localsearch
