package wire

import (
	"context"

	appinvoice "freelance-invoice-api/internal/application/invoice"
	appmilestone "freelance-invoice-api/internal/application/milestone"
	"freelance-invoice-api/internal/application/notification"
	"freelance-invoice-api/internal/config"
	"freelance-invoice-api/internal/infrastructure/persistence/redis"
	"freelance-invoice-api/internal/interfaces/http/handler"
	"freelance-invoice-api/internal/interfaces/http/middleware"
	workflowchain "freelance-invoice-api/internal/workflow/chain"
	"freelance-invoice-api/pkg/logger"
)

// ProvideRedisClient 提供 Redis 客户端，未启用时返回 nil
func ProvideRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		logger.Info(ctx, "redis disabled, rate limiting off and notifications logged only")
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRateLimiter 无 Redis 时返回 nil 接口，中间件退化为放行
func ProvideRateLimiter(client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return nil
	}
	return redis.NewRateLimiter(client)
}

// ProvideNotificationStore 无 Redis 时返回 nil，由服务退化为日志存储
func ProvideNotificationStore(client *redis.Client, cfg *config.Config) notification.Store {
	if client == nil {
		return nil
	}
	return redis.NewNotificationStore(client, cfg.Notification.ListKey, cfg.Notification.MaxLen)
}

// ProvideCompleter 以编排链作为模型调用实现
func ProvideCompleter(cfg *config.Config, chain *workflowchain.MilestoneChain) appmilestone.Completer {
	return appmilestone.NewChainCompleter(chain, cfg.GenerationProvider())
}

// ProvideGenerator 提供里程碑生成器
func ProvideGenerator(cfg *config.Config, completer appmilestone.Completer) *appmilestone.Generator {
	return appmilestone.NewGenerator(completer,
		appmilestone.WithSumTolerance(cfg.Generation.SumTolerance),
		appmilestone.WithMaxDescriptionLength(cfg.Generation.MaxDescriptionLength),
	)
}

// ProvideInvoiceAdapter 钱包提交在浏览器端完成，这里不注入 Submitter
func ProvideInvoiceAdapter(cfg *config.Config) *appinvoice.Adapter {
	return appinvoice.NewAdapter(cfg.Contract, cfg.Generation.SumTolerance, nil)
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(cfg *config.Config, client *redis.Client) *handler.HealthHandler {
	return handler.NewHealthHandler(cfg.App.Version, client)
}

// ProvideMilestoneHandler 提供里程碑处理器
func ProvideMilestoneHandler(cfg *config.Config, generator *appmilestone.Generator) *handler.MilestoneHandler {
	return handler.NewMilestoneHandler(generator, cfg.Generation.Timeout)
}

// ProvideInvoiceHandler 提供发票处理器
func ProvideInvoiceHandler(adapter *appinvoice.Adapter) *handler.InvoiceHandler {
	return handler.NewInvoiceHandler(adapter)
}
