package auctionerrors

import "errors"

// Room and bidding errors
var (
	ErrInvalidRoomCode   = errors.New("invalid room code")
	ErrNotJoined         = errors.New("participant has not joined the room")
	ErrAuctionNotRunning = errors.New("auction is not running")
	ErrNotEligible       = errors.New("participant is not eligible to bid in this batch")
	ErrAlreadyTopBidder  = errors.New("participant is already the top bidder")
	ErrInvalidIncrement  = errors.New("bid increment is not on the menu")
)

// Round lifecycle errors
var (
	ErrAuctionFinished    = errors.New("auction round is finished")
	ErrAuctionNotFinished = errors.New("auction round is not finished")
	ErrInvalidConfig      = errors.New("invalid auction configuration")
	ErrInvalidSettlement  = errors.New("invalid settlement figures")
)

// Storage errors
var (
	ErrStoreUnavailable     = errors.New("store unavailable")
	ErrMalformedStoredValue = errors.New("malformed stored value")
)

// Ledger and request errors
var (
	ErrRequestNotFound   = errors.New("request not found")
	ErrRequestNotPending = errors.New("request is not pending")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrBatchNotFound     = errors.New("batch not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrChitAlreadyActive = errors.New("user already holds an active chit in this batch")
)
