package model

import (
	"context"
	"testing"
)

// 列表查询在拼 SQL 前要求持有连接，空连接直接拒绝
func TestListQueriesRejectNilDB(t *testing.T) {
	ctx := context.Background()

	t.Run("draws", func(t *testing.T) {
		if _, err := ListDraws(ctx, nil, "CLOSED", 10, 0); err == nil {
			t.Fatal("expected an error with a nil db")
		}
	})

	t.Run("tickets by buyer", func(t *testing.T) {
		if _, err := ListTicketsByBuyer(ctx, nil, 1, 0, 10, 0); err == nil {
			t.Fatal("expected an error with a nil db")
		}
	})

	t.Run("wallet transactions", func(t *testing.T) {
		if _, err := ListWalletTransactions(ctx, nil, 1, "", 10, 0); err == nil {
			t.Fatal("expected an error with a nil db")
		}
	})
}
