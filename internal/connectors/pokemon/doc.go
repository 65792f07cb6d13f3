// Package pokemon provides the Pokemon TCG API connector (source A).
//
// Pages come from GET {base}/v2/cards?page&pageSize&orderBy=set.releaseDate.
// The total page count is ceil(totalCount / pageSize) and a page is the last
// one when its number reaches that total.
package pokemon
