package service

import (
	"github.com/shopspring/decimal"

	"github.com/phitthaya2548/lottobackend/internal/model"
)

// Tier 奖级
type Tier string

const (
	TierPrize1 Tier = "PRIZE1"
	TierPrize2 Tier = "PRIZE2"
	TierPrize3 Tier = "PRIZE3"
	TierLast3  Tier = "LAST3"
	TierLast2  Tier = "LAST2"
)

// JudgeResult 判奖结果
// Matched 为全部命中奖级；Best 为最终派发的单一奖级（不叠加）
type JudgeResult struct {
	Matched []Tier
	Best    Tier
	Amount  decimal.Decimal
}

// Won 是否中奖
func (r JudgeResult) Won() bool {
	return r.Best != "" && r.Amount.IsPositive()
}

// Judge 纯函数判奖：同一张票对五个奖级独立比对，派发金额最高的单一奖级
// 金额相同时取奖级序靠前者（PRIZE1 > PRIZE2 > PRIZE3 > LAST3 > LAST2）
// 只读，不修改任何状态；开奖前（号码为 NULL）的奖级视为未开出，不参与比对
func Judge(ticketNumber string, d *model.Draw) JudgeResult {
	var res JudgeResult
	if len(ticketNumber) < 6 {
		return res
	}

	last3 := ticketNumber[len(ticketNumber)-3:]
	last2 := ticketNumber[len(ticketNumber)-2:]

	type tierHit struct {
		tier   Tier
		target string
		ok     bool
		sample string
		amount decimal.Decimal
	}

	hits := []tierHit{
		{tier: TierPrize1, target: d.Win1Full.String, ok: d.Win1Full.Valid, sample: ticketNumber, amount: d.Prize1Amount},
		{tier: TierPrize2, target: d.Win2Full.String, ok: d.Win2Full.Valid, sample: ticketNumber, amount: d.Prize2Amount},
		{tier: TierPrize3, target: d.Win3Full.String, ok: d.Win3Full.Valid, sample: ticketNumber, amount: d.Prize3Amount},
		{tier: TierLast3, target: d.WinLast3.String, ok: d.WinLast3.Valid, sample: last3, amount: d.Last3Amount},
		{tier: TierLast2, target: d.WinLast2.String, ok: d.WinLast2.Valid, sample: last2, amount: d.Last2Amount},
	}

	for _, h := range hits {
		if !h.ok || h.target == "" || h.sample != h.target {
			continue
		}
		res.Matched = append(res.Matched, h.tier)
		// 金额更高才替换，相同金额保留先命中的奖级
		if res.Best == "" || h.amount.GreaterThan(res.Amount) {
			res.Best = h.tier
			res.Amount = h.amount
		}
	}

	if !res.Amount.IsPositive() {
		// 命中了金额为0的奖级不视为中奖
		res.Best = ""
		res.Amount = decimal.Zero
	}

	return res
}
