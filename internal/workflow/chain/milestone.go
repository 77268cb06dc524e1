package chain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	llmctx "freelance-invoice-api/internal/domain/service"
	wfmodel "freelance-invoice-api/internal/workflow/model"
	workflowport "freelance-invoice-api/internal/workflow/port"
	workflowprompt "freelance-invoice-api/internal/workflow/prompt"
)

// MilestoneChain 渲染里程碑提示词并调用一次模型，不做重试
type MilestoneChain struct {
	factory  workflowport.ChatModelFactory
	registry *workflowprompt.Registry

	chainOnce sync.Once
	chain     compose.Runnable[*wfmodel.MilestoneGenerateInput, *schema.Message]
	chainErr  error
}

func NewMilestoneChain(factory workflowport.ChatModelFactory, registry *workflowprompt.Registry) *MilestoneChain {
	if registry == nil {
		registry = workflowprompt.NewRegistry()
	}
	return &MilestoneChain{factory: factory, registry: registry}
}

func (c *MilestoneChain) Invoke(ctx context.Context, in *wfmodel.MilestoneGenerateInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}

	chain, err := c.getChain()
	if err != nil {
		return nil, err
	}
	return chain.Invoke(ctx, in)
}

type milestoneChainState struct {
	In       *wfmodel.MilestoneGenerateInput
	Messages []*schema.Message
	OutMsg   *schema.Message
}

func (c *MilestoneChain) getChain() (compose.Runnable[*wfmodel.MilestoneGenerateInput, *schema.Message], error) {
	c.chainOnce.Do(func() {
		c.chain, c.chainErr = c.buildChain(context.Background())
	})
	return c.chain, c.chainErr
}

func (c *MilestoneChain) buildChain(ctx context.Context) (compose.Runnable[*wfmodel.MilestoneGenerateInput, *schema.Message], error) {
	chain := compose.NewChain[*wfmodel.MilestoneGenerateInput, *schema.Message]()

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, in *wfmodel.MilestoneGenerateInput) (*milestoneChainState, error) {
			if in == nil {
				return nil, fmt.Errorf("input is nil")
			}
			return &milestoneChainState{In: in}, nil
		}),
		compose.WithNodeName("milestone.init"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *milestoneChainState) (*milestoneChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			msgs, err := c.formatMessages(ctx, st.In)
			if err != nil {
				return nil, err
			}
			st.Messages = msgs
			return st, nil
		}),
		compose.WithNodeName("milestone.template"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *milestoneChainState) (*milestoneChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}

			provider := strings.TrimSpace(st.In.Provider)
			ctx = llmctx.WithWorkflowProvider(ctx, llmctx.WorkflowMilestonePlan, provider)
			chatModel, err := c.factory.Get(ctx, provider)
			if err != nil {
				return nil, err
			}

			outMsg, err := chatModel.Generate(ctx, st.Messages)
			if err != nil {
				return nil, err
			}
			if outMsg == nil {
				return nil, fmt.Errorf("empty llm response")
			}
			st.OutMsg = outMsg
			return st, nil
		}),
		compose.WithNodeName("milestone.llm"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, st *milestoneChainState) (*schema.Message, error) {
			if st == nil || st.OutMsg == nil {
				return nil, fmt.Errorf("state is nil")
			}
			return st.OutMsg, nil
		}),
		compose.WithNodeName("milestone.finalize"),
	)

	return chain.Compile(ctx, compose.WithGraphName("milestone_plan"))
}

func (c *MilestoneChain) formatMessages(ctx context.Context, in *wfmodel.MilestoneGenerateInput) ([]*schema.Message, error) {
	return c.registry.Format(ctx, workflowprompt.PromptMilestonePlanV1, map[string]any{
		workflowprompt.VarProjectDescription: strings.TrimSpace(in.ProjectDescription),
		workflowprompt.VarTotalAmount:        FormatAmount(in.TotalAmount),
	})
}

// FormatAmount 以最短十进制形式输出金额（1000 而非 1000.000000）
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
