package service

import (
	"math/rand"
	"testing"

	"github.com/phitthaya2548/lottobackend/common/constant"
)

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func TestGenerateWinningNumbers(t *testing.T) {
	t.Run("ALL mode shapes and uniqueness", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		for i := 0; i < 200; i++ {
			nums := GenerateWinningNumbers(constant.SourceModeAll, true, nil, rng)

			for _, s := range []string{nums.Prize1, nums.Prize2, nums.Prize3} {
				if !isDigits(s, 6) {
					t.Fatalf("full prize not 6 digits: %q", s)
				}
			}
			if !isDigits(nums.Last3, 3) || !isDigits(nums.Last2, 2) {
				t.Fatalf("suffix prizes malformed: %q %q", nums.Last3, nums.Last2)
			}
			if nums.Prize1 == nums.Prize2 || nums.Prize1 == nums.Prize3 || nums.Prize2 == nums.Prize3 {
				t.Fatalf("full prizes must be pairwise distinct: %v", nums)
			}
			if nums.Last3 != nums.Prize1[3:] {
				t.Fatalf("last3 %q must be prize1 %q suffix", nums.Last3, nums.Prize1)
			}
		}
	})

	t.Run("SOLD_ONLY draws full prizes from the sold pool", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		pool := []string{"111111", "222222", "333333", "444444"}
		inPool := map[string]bool{}
		for _, n := range pool {
			inPool[n] = true
		}

		for i := 0; i < 100; i++ {
			nums := GenerateWinningNumbers(constant.SourceModeSoldOnly, true, pool, rng)
			for _, s := range []string{nums.Prize1, nums.Prize2, nums.Prize3} {
				if !inPool[s] {
					t.Fatalf("prize %q not drawn from sold pool", s)
				}
			}
			if nums.Prize1 == nums.Prize2 || nums.Prize1 == nums.Prize3 || nums.Prize2 == nums.Prize3 {
				t.Fatalf("full prizes must be pairwise distinct: %v", nums)
			}
			if nums.Last3 != nums.Prize1[3:] {
				t.Fatalf("last3 must follow prize1, got %q for %q", nums.Last3, nums.Prize1)
			}
			// 末二位取自某张售出票的尾部
			valid := false
			for _, n := range pool {
				if nums.Last2 == n[4:] {
					valid = true
					break
				}
			}
			if !valid {
				t.Fatalf("last2 %q not derived from sold pool", nums.Last2)
			}
		}
	})

	t.Run("SOLD_ONLY backfills when pool has fewer than three distinct numbers", func(t *testing.T) {
		rng := rand.New(rand.NewSource(11))
		pool := []string{"555555", "555555", "666666"}

		nums := GenerateWinningNumbers(constant.SourceModeSoldOnly, true, pool, rng)
		if nums.Prize1 == nums.Prize2 || nums.Prize1 == nums.Prize3 || nums.Prize2 == nums.Prize3 {
			t.Fatalf("backfill must keep prizes distinct: %v", nums)
		}
		for _, s := range []string{nums.Prize1, nums.Prize2, nums.Prize3} {
			if !isDigits(s, 6) {
				t.Fatalf("backfilled prize malformed: %q", s)
			}
		}
	})

	t.Run("SOLD_ONLY without uniqueness may repeat pool numbers", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))
		pool := []string{"777777"}

		nums := GenerateWinningNumbers(constant.SourceModeSoldOnly, false, pool, rng)
		if nums.Prize1 != "777777" || nums.Prize2 != "777777" || nums.Prize3 != "777777" {
			t.Fatalf("single-ticket pool with replacement must repeat: %v", nums)
		}
	})

	t.Run("empty sold pool falls back to pure random", func(t *testing.T) {
		rng := rand.New(rand.NewSource(5))
		nums := GenerateWinningNumbers(constant.SourceModeSoldOnly, true, nil, rng)
		for _, s := range []string{nums.Prize1, nums.Prize2, nums.Prize3} {
			if !isDigits(s, 6) {
				t.Fatalf("fallback prize malformed: %q", s)
			}
		}
		if !isDigits(nums.Last2, 2) {
			t.Fatalf("fallback last2 malformed: %q", nums.Last2)
		}
	})

	t.Run("deterministic for a fixed seed", func(t *testing.T) {
		a := GenerateWinningNumbers(constant.SourceModeAll, true, nil, rand.New(rand.NewSource(99)))
		b := GenerateWinningNumbers(constant.SourceModeAll, true, nil, rand.New(rand.NewSource(99)))
		if a != b {
			t.Fatalf("same seed must reproduce: %v vs %v", a, b)
		}
	})
}
