package redis

import "strconv"

// Redis Key 定义与构造器
// 统一管理业务使用的 Redis Key，避免散落的魔法字符串，便于统一维护与变更。

const (
	// PrefixDrawResult：期次开奖结果缓存 Key 的前缀。
	// 作用：开奖（CLOSED）后的号码不再变化，结果读路径先查缓存再回源数据库。
	PrefixDrawResult = "lotto:draw:result:"

	// PrefixDrawCurrent：当前在售期缓存 Key。
	PrefixDrawCurrent = "lotto:draw:current"

	// PrefixTokenBlacklist：登出后的 JWT 黑名单 Key 的前缀，TTL 与 token 剩余有效期一致。
	PrefixTokenBlacklist = "lotto:token:blacklist:"

	// PrefixClaimLock：兑奖"进行中锁" Key 的前缀。
	// 作用：SETNX + TTL 吸收同一张票的瞬时重复兑奖请求，减轻数据库行锁压力。
	PrefixClaimLock = "lotto:claim:lock:"
)

// DrawResultKey：构造开奖结果缓存 Key。形如：lotto:draw:result:{draw_number}
func DrawResultKey(drawNumber int64) string {
	return PrefixDrawResult + strconv.FormatInt(drawNumber, 10)
}

// CurrentDrawKey：当前在售期缓存 Key。
func CurrentDrawKey() string { return PrefixDrawCurrent }

// TokenBlacklistKey：构造 JWT 黑名单 Key。形如：lotto:token:blacklist:{jti}
func TokenBlacklistKey(jti string) string { return PrefixTokenBlacklist + jti }

// ClaimLockKey：构造兑奖进行中锁 Key。形如：lotto:claim:lock:{draw_number}:{ticket_number}
func ClaimLockKey(drawNumber int64, ticketNumber string) string {
	return PrefixClaimLock + strconv.FormatInt(drawNumber, 10) + ":" + ticketNumber
}
