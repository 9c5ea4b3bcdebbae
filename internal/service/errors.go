package service

import "errors"

// 业务错误集中定义，controller 层用 errors.Is 映射到响应码
var (
	ErrBadRequest = errors.New("bad request")

	ErrDrawNotFound   = errors.New("draw not found")
	ErrTicketNotFound = errors.New("ticket not found")
	ErrWalletNotFound = errors.New("wallet not found")
	ErrUserNotFound   = errors.New("user not found")

	ErrDrawNotClosed = errors.New("draw not settled yet")
	ErrDrawNotOpen   = errors.New("draw not open for sale")

	ErrNotOwner            = errors.New("ticket belongs to another buyer")
	ErrAlreadyRedeemed     = errors.New("ticket already redeemed")
	ErrInvalidTicketStatus = errors.New("ticket status not claimable")
	ErrNotAWinner          = errors.New("ticket did not win any tier")
	ErrDuplicatePrizeTx    = errors.New("prize already paid for this ticket")

	ErrNumberTaken         = errors.New("ticket number already sold for this draw")
	ErrInsufficientBalance = errors.New("insufficient balance")

	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserDisabled       = errors.New("user disabled")

	ErrAlreadySettled    = errors.New("draw already settled")
	ErrDuplicateInFlight = errors.New("duplicate request in flight")
)
