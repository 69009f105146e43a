// Package pollrelay implements the poll relay inside the community
// context.
//
// The module intercepts member-posted polls, republishes them under the
// bot account so it can receive vote-answer events, and keeps a per-poll
// voter roster with a live non-voter report. Business rules live in the
// application/domain layers; the messaging gateway and the persisted
// ledger sit behind ports and adapters.
package pollrelay
