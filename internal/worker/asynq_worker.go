package worker

import (
	"context"
	"encoding/json"

	"github.com/adminsolds/milktea-program-sub000/internal/logger"
	"github.com/adminsolds/milktea-program-sub000/internal/provider"
	"github.com/adminsolds/milktea-program-sub000/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderStatusNotify, c.handleOrderStatusNotify)
}

// handleOrderStatusNotify 订单状态变更通知
// 目前仅落结构化日志；小程序订阅消息推送在此接入。
func (c *Consumer) handleOrderStatusNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_notify_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_status_notify_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_status_notify_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	if order.MemberID == nil {
		logger.Debugw("worker_order_status_notify_skip_anonymous_order", "order_id", order.ID)
		return nil
	}
	member, err := c.MemberRepo.GetByID(*order.MemberID)
	if err != nil {
		logger.Warnw("worker_order_status_notify_fetch_member_failed", "order_id", order.ID, "member_id", *order.MemberID, "error", err)
		return err
	}
	if member == nil || member.OpenID == "" {
		logger.Debugw("worker_order_status_notify_skip_no_openid", "order_id", order.ID)
		return nil
	}

	logger.Infow("order_status_notify",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"member_id", member.ID,
		"openid", member.OpenID,
		"from_status", payload.FromStatus,
		"to_status", payload.ToStatus,
	)
	return nil
}
