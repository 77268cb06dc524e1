//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"freelance-invoice-api/internal/application/notification"
	"freelance-invoice-api/internal/config"
	"freelance-invoice-api/internal/infrastructure/llm"
	"freelance-invoice-api/internal/interfaces/http/handler"
	"freelance-invoice-api/internal/interfaces/http/router"
	workflowchain "freelance-invoice-api/internal/workflow/chain"
	workflowport "freelance-invoice-api/internal/workflow/port"
	workflowprompt "freelance-invoice-api/internal/workflow/prompt"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RedisSet,
		MilestoneSet,
		RouterSet,
	)
	return nil, nil, nil
}

// RedisSet Redis 提供者集合（未启用时各提供者返回 nil 实现）
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	ProvideRateLimiter,
	ProvideNotificationStore,
)

// MilestoneSet 里程碑生成链路
var MilestoneSet = wire.NewSet(
	llm.NewEinoFactory,
	wire.Bind(new(workflowport.ChatModelFactory), new(*llm.EinoFactory)),
	workflowprompt.NewRegistry,
	workflowchain.NewMilestoneChain,
	ProvideCompleter,
	ProvideGenerator,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideInvoiceAdapter,
	notification.NewService,
	wire.Bind(new(handler.NotificationReceiver), new(*notification.Service)),
	ProvideHealthHandler,
	ProvideMilestoneHandler,
	ProvideInvoiceHandler,
	handler.NewContractHandler,
	handler.NewAgentHandler,
	handler.NewNotificationHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)
