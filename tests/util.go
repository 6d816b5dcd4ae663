package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trezcool/tuition/core"
	"github.com/trezcool/tuition/core/session"
	"github.com/trezcool/tuition/core/student"
	logsvc "github.com/trezcool/tuition/services/logger"
	"github.com/trezcool/tuition/storage/blob"
	"github.com/trezcool/tuition/storage/gateway"
	"github.com/trezcool/tuition/storage/memdb"
)

// NewSession opens a session over an in-memory store. A nil store starts empty.
func NewSession(t *testing.T, store blob.Store) *session.Session {
	t.Helper()
	if store == nil {
		store = blob.NewMem()
	}
	log := logsvc.NewDiscardLogger()
	sess, err := session.Open(context.Background(), memdb.Open(), gateway.New(store, time.UTC, log), core.NewValidator(), log)
	if err != nil {
		t.Fatalf("session.Open() failed: %v", err)
	}
	return sess
}

func CreateStudent(t *testing.T, sess *session.Session, name string, sched student.Schedule, fee int64) student.Student {
	t.Helper()
	std, err := sess.AddStudent(context.Background(), student.NewStudent{
		Name:       name,
		Grade:      "10",
		Subject:    "Maths",
		Schedule:   sched,
		MonthlyFee: decimal.NewFromInt(fee),
	})
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return std
}

// Date parses an ISO date or fails the test.
func Date(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("Date() failed: %v", err)
	}
	return d
}
