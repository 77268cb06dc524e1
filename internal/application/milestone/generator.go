package milestone

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"

	domain "freelance-invoice-api/internal/domain/milestone"
	wfnode "freelance-invoice-api/internal/workflow/node"
	"freelance-invoice-api/pkg/logger"
	"freelance-invoice-api/pkg/metrics"
	"freelance-invoice-api/pkg/tracer"
)

// rawLogLimit 日志中模型原始输出的最大字符数
const rawLogLimit = 2000

// Generator 无状态，可被多个调用方并发使用
type Generator struct {
	completer            Completer
	tolerance            float64
	maxDescriptionLength int
}

// Option Generator 可选项
type Option func(*Generator)

// WithSumTolerance 覆盖金额求和容差
func WithSumTolerance(tolerance float64) Option {
	return func(g *Generator) {
		if tolerance >= 0 {
			g.tolerance = tolerance
		}
	}
}

// WithMaxDescriptionLength 限制项目描述长度（按字符计），<=0 表示不限制
func WithMaxDescriptionLength(n int) Option {
	return func(g *Generator) {
		g.maxDescriptionLength = n
	}
}

// NewGenerator 创建生成器，completer 负责实际的模型调用
func NewGenerator(completer Completer, opts ...Option) *Generator {
	g := &Generator{
		completer: completer,
		tolerance: domain.DefaultSumTolerance,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate 生成里程碑。成功时返回保持模型顺序的列表，失败时返回 *domain.GenerationError。
// 每次调用至多一次模型请求，不缓存、不重试。
func (g *Generator) Generate(ctx context.Context, req domain.GenerationRequest) (milestones []domain.Milestone, err error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "milestone.Generate")
	span.SetAttributes(attribute.Float64("milestone.total_amount", req.TotalAmount))
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = string(domain.KindOf(err))
			span.SetAttributes(attribute.String("milestone.error_kind", outcome))
			tracer.RecordError(span, err)
		} else {
			span.SetAttributes(attribute.Int("milestone.count", len(milestones)))
			metrics.MilestoneCount.Observe(float64(len(milestones)))
		}
		metrics.MilestoneGenerationTotal.WithLabelValues(outcome).Inc()
		metrics.MilestoneGenerationDuration.Observe(time.Since(start).Seconds())
		span.End()
	}()

	if g == nil || g.completer == nil {
		return nil, domain.NewUpstreamFailure(fmt.Errorf("milestone completer not configured"))
	}
	if err := g.validate(req); err != nil {
		return nil, err
	}

	logger.Info(ctx, "generating milestones",
		"description_chars", utf8.RuneCountInString(req.ProjectDescription),
		"total_amount", req.TotalAmount,
	)

	raw, err := g.completer.Complete(ctx, req)
	if err != nil {
		genErr := classifyCallError(ctx, err)
		logger.Error(ctx, "milestone model call failed", err, "kind", string(genErr.Kind))
		return nil, genErr
	}
	logger.Debug(ctx, "milestone model response", "raw", wfnode.TruncateByRunes(raw, rawLogLimit))

	milestones, err = process(raw, req.TotalAmount, g.tolerance)
	if err != nil {
		var genErr *domain.GenerationError
		if errors.As(err, &genErr) && genErr.Kind == domain.KindSumMismatch {
			logger.Warn(ctx, "milestone sum mismatch", "sum", genErr.Sum, "expected", genErr.Expected)
		} else {
			logger.Warn(ctx, "milestone response rejected", "error", err.Error())
		}
		return nil, err
	}

	logger.Info(ctx, "milestones generated", "count", len(milestones))
	return milestones, nil
}

// GenerateWithTimeout 为单次生成施加时限，超时返回 Timeout 错误
func (g *Generator) GenerateWithTimeout(ctx context.Context, timeout time.Duration, req domain.GenerationRequest) ([]domain.Milestone, error) {
	if timeout <= 0 {
		return g.Generate(ctx, req)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return g.Generate(ctx, req)
}

func (g *Generator) validate(req domain.GenerationRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if g.maxDescriptionLength > 0 && utf8.RuneCountInString(req.ProjectDescription) > g.maxDescriptionLength {
		return domain.NewInvalidInput(fmt.Sprintf("projectDescription exceeds %d characters", g.maxDescriptionLength))
	}
	return nil
}

// classifyCallError 调用方时限到期归为 Timeout，其余归为 UpstreamFailure
func classifyCallError(ctx context.Context, err error) *domain.GenerationError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.NewTimeout(err)
	}
	return domain.NewUpstreamFailure(err)
}
