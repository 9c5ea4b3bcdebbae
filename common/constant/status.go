package constant

// draw status
const (
	DrawStatusOpen   = "OPEN"   // 当前在售期
	DrawStatusClosed = "CLOSED" // 已开奖
)

// ticket status
const (
	TicketStatusAvailable = "AVAILABLE" // 预留，当前不生成库存票
	TicketStatusSold      = "SOLD"      // 已售出
	TicketStatusRedeemed  = "REDEEMED"  // 已兑奖
	TicketStatusCancelled = "CANCELLED" // 预留
)

// 开奖号码来源模式
const (
	SourceModeAll      = "ALL"       // 全号段随机
	SourceModeSoldOnly = "SOLD_ONLY" // 仅从售出票抽取
)

// user role
const (
	RoleMember = "MEMBER"
	RoleAdmin  = "ADMIN"
)

const (
	TicketNumberLen = 6
	Last3Len        = 3
	Last2Len        = 2
)
