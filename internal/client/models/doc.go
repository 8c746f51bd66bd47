// Package models defines the client-side view of the quotes platform:
// users, quotes, reactions and the request payloads sent to the API.
//
// Decoders are lenient about field spelling because the API has shipped
// several variants of the same record (author_username vs author_name,
// quotes_count vs quoteCount, numeric vs string ids).
package models
