package service

import (
	"math/rand"

	"github.com/phitthaya2548/lottobackend/common/constant"
)

// WinningNumbers 一次开奖产出的五组号码
type WinningNumbers struct {
	Prize1 string // 6位
	Prize2 string // 6位
	Prize3 string // 6位
	Last3  string // 3位，恒等于 Prize1 末三位
	Last2  string // 2位
}

// GenerateWinningNumbers 按来源模式生成开奖号码
// mode=SOLD_ONLY 时从售出池抽取，池为空则退化为 ALL 随机
// uniqueExact=true 时保证三个全号码两两不同（拒绝采样补齐）
// 随机源由调用方注入，结算事务内传入同一个 rng，测试时传固定种子
func GenerateWinningNumbers(mode string, uniqueExact bool, soldPool []string, rng *rand.Rand) WinningNumbers {
	var picks []string

	soldOnly := mode == constant.SourceModeSoldOnly && len(soldPool) > 0
	if soldOnly {
		// 洗乱售出池副本，顺序取前三作为一二三等奖
		pool := make([]string, len(soldPool))
		copy(pool, soldPool)
		rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

		if uniqueExact {
			seen := make(map[string]bool, 3)
			for _, n := range pool {
				if len(picks) == 3 {
					break
				}
				if !seen[n] {
					seen[n] = true
					picks = append(picks, n)
				}
			}
			// 池内不足三个不同号码时，随机补齐且保证与已选不同
			for len(picks) < 3 {
				picks = append(picks, sampleDistinct(rng, picks))
			}
		} else {
			picks = append(picks, pool[0])
			// 非唯一模式：二三等奖从池内有放回抽取
			picks = append(picks, soldPool[rng.Intn(len(soldPool))])
			picks = append(picks, soldPool[rng.Intn(len(soldPool))])
		}
	} else {
		picks = append(picks, randomDigits(rng, constant.TicketNumberLen))
		if uniqueExact {
			for len(picks) < 3 {
				picks = append(picks, sampleDistinct(rng, picks))
			}
		} else {
			picks = append(picks, randomDigits(rng, constant.TicketNumberLen))
			picks = append(picks, randomDigits(rng, constant.TicketNumberLen))
		}
	}

	out := WinningNumbers{
		Prize1: picks[0],
		Prize2: picks[1],
		Prize3: picks[2],
	}

	// 末三位恒取自一等奖尾部
	out.Last3 = out.Prize1[len(out.Prize1)-constant.Last3Len:]

	// 末二位：售出池可用时从随机一张售出票的尾部截取（提高小奖命中率的业务策略）
	if soldOnly {
		n := soldPool[rng.Intn(len(soldPool))]
		out.Last2 = n[len(n)-constant.Last2Len:]
	} else {
		out.Last2 = randomDigits(rng, constant.Last2Len)
	}

	return out
}

// sampleDistinct 拒绝采样出一个与 taken 都不同的6位号码
func sampleDistinct(rng *rand.Rand, taken []string) string {
	for {
		n := randomDigits(rng, constant.TicketNumberLen)
		dup := false
		for _, t := range taken {
			if t == n {
				dup = true
				break
			}
		}
		if !dup {
			return n
		}
	}
}

func randomDigits(rng *rand.Rand, n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte('0' + rng.Intn(10))
	}
	return string(buf)
}
