// Package onepiece provides the apitcg One Piece card connector (source C).
//
// Pages come from GET {base}/api/one-piece/cards?page&limit. The response
// reports page, limit, total and totalPages directly. Redirects are followed
// by hand, at most once per request.
package onepiece
