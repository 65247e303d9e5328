// Package blog holds the rules for posts: who may change them, how votes move
// a user between the upvote and downvote sets, how comments stay linked to
// their post, and how posts are ranked for the feed.
//
// Every mutation is a read-modify-write of a single post. Stores reject a
// write whose version is stale, and the service re-runs the whole
// read-modify-write with backoff when that happens.
package blog
