// Package api serves a stateful.Store over HTTP.
//
// Every collection is mounted under /api/<name> with the same endpoint set:
//
//	GET    /api/<name>        list, query parameters filter by substring
//	GET    /api/<name>/{id}   get one record
//	POST   /api/<name>        create, assigning an id when none is given
//	PATCH  /api/<name>/{id}   shallow merge
//	DELETE /api/<name>/{id}   remove
//
// POST /api/_reset reloads every collection from the seed source.
// GET /api/_state reports item counts and GET /api/_stats operation counters.
//
// Errors are returned as {"error": "<message>"}.
package api
