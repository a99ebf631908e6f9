package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/adminsolds/milktea-program-sub000/internal/models"
	"github.com/adminsolds/milktea-program-sub000/internal/provider"
	"github.com/adminsolds/milktea-program-sub000/internal/queue"
	"github.com/adminsolds/milktea-program-sub000/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_notify_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Member{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	c := &provider.Container{
		OrderRepo:  repository.NewOrderRepository(db),
		MemberRepo: repository.NewMemberRepository(db),
	}
	return NewConsumer(c), db
}

func TestHandleOrderStatusNotify(t *testing.T) {
	consumer, db := setupConsumerTest(t)

	member := models.Member{OpenID: "oWx123", MemberNo: "M0001", Nickname: "测试会员"}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("create member failed: %v", err)
	}
	order := models.Order{OrderNo: "MT20260901000001", MemberID: &member.ID, StoreID: 1, PaymentMethod: "wallet", Status: 1}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	task, err := queue.NewOrderStatusNotifyTask(queue.OrderStatusNotifyPayload{
		OrderID:    order.ID,
		OrderNo:    order.OrderNo,
		FromStatus: 1,
		ToStatus:   2,
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderStatusNotify(context.Background(), task); err != nil {
		t.Fatalf("handle notify failed: %v", err)
	}
}

func TestHandleOrderStatusNotifySkipsAnonymousOrder(t *testing.T) {
	consumer, db := setupConsumerTest(t)

	order := models.Order{OrderNo: "MT20260901000002", StoreID: 1, PaymentMethod: "cash", IsPOS: true, Status: 1}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	task, err := queue.NewOrderStatusNotifyTask(queue.OrderStatusNotifyPayload{
		OrderID:  order.ID,
		OrderNo:  order.OrderNo,
		ToStatus: 2,
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderStatusNotify(context.Background(), task); err != nil {
		t.Fatalf("anonymous order should be skipped without error, got: %v", err)
	}
}

func TestHandleOrderStatusNotifyBadPayload(t *testing.T) {
	consumer, _ := setupConsumerTest(t)

	task := asynq.NewTask(queue.TaskOrderStatusNotify, []byte("{not-json"))
	if err := consumer.handleOrderStatusNotify(context.Background(), task); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestHandleOrderStatusNotifyMissingOrder(t *testing.T) {
	consumer, _ := setupConsumerTest(t)

	task, err := queue.NewOrderStatusNotifyTask(queue.OrderStatusNotifyPayload{OrderID: 9999, ToStatus: 2})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderStatusNotify(context.Background(), task); err != nil {
		t.Fatalf("missing order should be skipped without error, got: %v", err)
	}
}
