package state

import "fmt"

// 期次状态
const (
	DrawOpen   = "OPEN"   // 在售中，可购票
	DrawClosed = "CLOSED" // 已开奖，可兑奖
)

// 票状态
const (
	TicketSold     = "SOLD"     // 已售出，未兑奖
	TicketRedeemed = "REDEEMED" // 已兑奖
)

// 期次事件
const (
	EvtSettle = "settle" // 开奖结算
)

// 票事件
const (
	EvtRedeem = "redeem" // 兑奖
)

// NextDrawState 根据当前期次状态与事件计算下一个状态，非法转换报错
func NextDrawState(cur, evt string) (string, error) {
	switch cur {
	case DrawOpen:
		if evt == EvtSettle {
			return DrawClosed, nil
		}
	}
	return cur, fmt.Errorf("invalid draw transition: %s --%s--> ?", cur, evt)
}

// NextTicketState 根据当前票状态与事件计算下一个状态，非法转换报错
func NextTicketState(cur, evt string) (string, error) {
	switch cur {
	case TicketSold:
		if evt == EvtRedeem {
			return TicketRedeemed, nil
		}
	}
	return cur, fmt.Errorf("invalid ticket transition: %s --%s--> ?", cur, evt)
}
