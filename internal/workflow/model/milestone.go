package model

// MilestoneGenerateInput 里程碑拆分工作流输入，模型参数由 provider 配置决定
type MilestoneGenerateInput struct {
	ProjectDescription string
	TotalAmount        float64
	Provider           string
}
