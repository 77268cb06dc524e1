package service

import (
	"context"
	"strings"
)

const unknownLabel = "unknown"

// 工作流名称，用于指标与追踪标签
const (
	WorkflowMilestonePlan = "milestone_plan"
)

type llmCallKey struct{}

// llmCall 描述当前 LLM 调用所属的工作流与 provider
type llmCall struct {
	workflow string
	provider string
}

// WithWorkflowProvider 将工作流与 provider 标签注入 context，空值沿用已有标签
func WithWorkflowProvider(ctx context.Context, workflow, provider string) context.Context {
	if ctx == nil {
		return nil
	}
	cur, _ := ctx.Value(llmCallKey{}).(llmCall)
	if w := strings.TrimSpace(workflow); w != "" {
		cur.workflow = w
	}
	if p := strings.TrimSpace(provider); p != "" {
		cur.provider = p
	}
	return context.WithValue(ctx, llmCallKey{}, cur)
}

func WorkflowFromContext(ctx context.Context) string {
	return labelOrUnknown(callFromContext(ctx).workflow)
}

func ProviderFromContext(ctx context.Context) string {
	return labelOrUnknown(callFromContext(ctx).provider)
}

func callFromContext(ctx context.Context) llmCall {
	if ctx == nil {
		return llmCall{}
	}
	c, _ := ctx.Value(llmCallKey{}).(llmCall)
	return c
}

func labelOrUnknown(s string) string {
	if s == "" {
		return unknownLabel
	}
	return s
}
