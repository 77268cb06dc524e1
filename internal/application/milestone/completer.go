// Package milestone 实现里程碑生成：调用模型、修复、解析并校验输出
package milestone

import (
	"context"
	"fmt"
	"strings"

	domain "freelance-invoice-api/internal/domain/milestone"
	workflowchain "freelance-invoice-api/internal/workflow/chain"
	wfmodel "freelance-invoice-api/internal/workflow/model"
)

// Completer 向生成模型发出一次请求并返回原始文本
type Completer interface {
	Complete(ctx context.Context, req domain.GenerationRequest) (string, error)
}

// CompleterFunc 函数适配器
type CompleterFunc func(ctx context.Context, req domain.GenerationRequest) (string, error)

// Complete 实现 Completer
func (f CompleterFunc) Complete(ctx context.Context, req domain.GenerationRequest) (string, error) {
	return f(ctx, req)
}

// ChainCompleter 通过 MilestoneChain 调用配置的 provider
type ChainCompleter struct {
	chain    *workflowchain.MilestoneChain
	provider string
}

func NewChainCompleter(chain *workflowchain.MilestoneChain, provider string) *ChainCompleter {
	return &ChainCompleter{chain: chain, provider: strings.TrimSpace(provider)}
}

// Complete 实现 Completer
func (c *ChainCompleter) Complete(ctx context.Context, req domain.GenerationRequest) (string, error) {
	if c == nil || c.chain == nil {
		return "", fmt.Errorf("milestone chain not configured")
	}
	msg, err := c.chain.Invoke(ctx, &wfmodel.MilestoneGenerateInput{
		ProjectDescription: req.ProjectDescription,
		TotalAmount:        req.TotalAmount,
		Provider:           c.provider,
	})
	if err != nil {
		return "", err
	}
	if msg == nil {
		return "", fmt.Errorf("empty llm response")
	}
	return msg.Content, nil
}
