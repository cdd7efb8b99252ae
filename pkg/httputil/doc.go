// Package httputil holds the HTTP plumbing shared by the dungeon API: JSON
// encoding of responses and errors, bounded request decoding, and a
// middleware reporting requests to [observability.HTTPHooks].
//
// Errors are written as
//
//	{"code": "INVALID_STRATEGY", "message": "strategy must be one of ..."}
//
// with the status chosen by [errors.HTTPStatus]. Errors without a code are
// reported as INTERNAL_ERROR and their text is not exposed.
//
// [observability.HTTPHooks]: github.com/Wesbraak3/Dungeon-Generator/pkg/observability.HTTPHooks
// [errors.HTTPStatus]: github.com/Wesbraak3/Dungeon-Generator/pkg/errors.HTTPStatus
package httputil
